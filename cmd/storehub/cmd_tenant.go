package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storehub/app/repositories"
	"github.com/shashiranjanraj/storehub/app/services"
	"github.com/shashiranjanraj/storehub/config"
	"github.com/shashiranjanraj/storehub/pkg/app"
	"github.com/shashiranjanraj/storehub/pkg/apperr"
)

// serviceSet boots the database and builds services without cache, storage
// or workers; operator commands need none of them.
func serviceSet() (services.Set, error) {
	db, err := app.BootDB()
	if err != nil {
		return services.Set{}, err
	}
	return services.NewSet(repositories.New(db), services.Options{
		TokenTTL:        config.TokenTTL(),
		DefaultCurrency: config.DefaultCurrency(),
	}), nil
}

// describe turns an apperr into a readable CLI error with its field messages.
func describe(err error) error {
	if err == nil {
		return nil
	}
	msg := apperr.PublicMessage(err)
	if msg == "Internal Server Error" {
		return err
	}
	for field, m := range apperr.FieldsOf(err) {
		msg += fmt.Sprintf("\n  %s: %s", field, m)
	}
	return errors.New(msg)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var storeInput services.StoreInput

// storehub store:create
var storeCreateCmd = &cobra.Command{
	Use:   "store:create",
	Short: "Provision a store (tenant)",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := serviceSet()
		if err != nil {
			return err
		}
		store, err := svc.Stores.Create(cmd.Context(), storeInput)
		if err != nil {
			return describe(err)
		}
		return printJSON(store)
	},
}

// storehub store:list
var storeListCmd = &cobra.Command{
	Use:   "store:list",
	Short: "List stores",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := serviceSet()
		if err != nil {
			return err
		}
		stores, err := svc.Stores.List(cmd.Context())
		if err != nil {
			return describe(err)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tSLUG\tNAME\tCURRENCY")
		for _, s := range stores {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Slug, s.Name, s.Currency)
		}
		return w.Flush()
	},
}

var (
	userInput  services.UserInput
	userStore  string
	tokenTTL   time.Duration
	tokenEmail string
)

// storehub user:create
var userCreateCmd = &cobra.Command{
	Use:   "user:create",
	Short: "Create a back-office account",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := serviceSet()
		if err != nil {
			return err
		}
		in := userInput
		if userStore != "" {
			store, err := svc.Stores.Find(cmd.Context(), userStore)
			if err != nil {
				return describe(err)
			}
			in.StoreID = store.ID
		}
		user, err := svc.Auth.CreateUser(cmd.Context(), in)
		if err != nil {
			return describe(err)
		}
		fmt.Printf("Created %s %s (%s)\n", user.Role, user.Email, user.ID)
		return nil
	},
}

// storehub token:issue
var tokenIssueCmd = &cobra.Command{
	Use:   "token:issue",
	Short: "Sign a bearer token for an existing account",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := serviceSet()
		if err != nil {
			return err
		}
		res, err := svc.Auth.IssueToken(cmd.Context(), tokenEmail, tokenTTL)
		if err != nil {
			return describe(err)
		}
		return printJSON(res)
	},
}

func init() {
	f := storeCreateCmd.Flags()
	f.StringVar(&storeInput.Name, "name", "", "Store name")
	f.StringVar(&storeInput.Slug, "slug", "", "URL slug (default: derived from name)")
	f.StringVar(&storeInput.Currency, "currency", "", "ISO 4217 currency (default DEFAULT_CURRENCY)")
	f.Int64Var(&storeInput.DeliveryFeeCents, "delivery-fee", 0, "Flat storefront delivery fee in cents")
	f.Int64Var(&storeInput.TaxRateBps, "tax-bps", 0, "Storefront tax rate in basis points (825 = 8.25%)")
	_ = storeCreateCmd.MarkFlagRequired("name")

	f = userCreateCmd.Flags()
	f.StringVar(&userInput.Name, "name", "", "Display name")
	f.StringVar(&userInput.Email, "email", "", "Login email")
	f.StringVar(&userInput.Password, "password", "", "Password (min 8 characters)")
	f.StringVar(&userInput.Role, "role", "ADMIN", "SUPER_ADMIN, ADMIN, STAFF or CUSTOMER")
	f.StringVar(&userStore, "store", "", "Store id or slug (required unless SUPER_ADMIN)")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")

	f = tokenIssueCmd.Flags()
	f.StringVar(&tokenEmail, "email", "", "Account email")
	f.DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (default JWT_TTL_MINUTES)")
	_ = tokenIssueCmd.MarkFlagRequired("email")
}
