package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storehub/app/services"
	"github.com/shashiranjanraj/storehub/pkg/bind"
	"github.com/shashiranjanraj/storehub/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Login exchanges email and password for a bearer token.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := bind.JSON(w, r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}

	res, err := c.service.Login(r.Context(), in)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, res)
}
