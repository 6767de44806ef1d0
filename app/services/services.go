// Package services holds the application protocols: catalogue tenant
// binding and the order pricing and creation engine. Every operation takes
// the caller's rbac.AuthContext explicitly and asks the guard before it
// touches data.
package services

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/shashiranjanraj/storehub/app/repositories"
	"github.com/shashiranjanraj/storehub/pkg/apperr"
	"github.com/shashiranjanraj/storehub/pkg/cache"
	"github.com/shashiranjanraj/storehub/pkg/database"
	"github.com/shashiranjanraj/storehub/pkg/storage"
)

// Options carries the infrastructure the services depend on. Nil Cache,
// Disk or Pool switch the matching feature off.
type Options struct {
	Cache           cache.Store
	TrackingTTL     time.Duration
	Disk            storage.Disk
	Pool            Submitter
	TokenTTL        time.Duration
	DefaultCurrency string
}

// Set bundles every service an entry point needs.
type Set struct {
	Stores     *StoreService
	Auth       *AuthService
	Categories *CategoryService
	Products   *ProductService
	Orders     *OrderService
}

func NewSet(repos *repositories.Repos, opts Options) Set {
	var orderOpts []OrderOption
	if opts.Cache != nil {
		orderOpts = append(orderOpts, WithTrackingCache(opts.Cache, opts.TrackingTTL))
	}
	currency := opts.DefaultCurrency
	if currency == "" {
		currency = "USD"
	}
	return Set{
		Stores:     NewStoreService(repos, currency),
		Auth:       NewAuthService(repos, opts.TokenTTL),
		Categories: NewCategoryService(repos),
		Products:   NewProductService(repos, opts.Disk, opts.Pool),
		Orders:     NewOrderService(repos, orderOpts...),
	}
}

// storeErr maps a repository failure to the application vocabulary.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case database.IsNotFound(err):
		return apperr.New(apperr.NotFound, what+" not found")
	case database.IsUniqueViolation(err):
		return apperr.Wrap(apperr.Conflict, err, what+" already exists")
	case database.IsForeignKeyViolation(err):
		return apperr.Wrap(apperr.Conflict, err, what+" is still referenced")
	default:
		return apperr.Wrap(apperr.Unexpected, err, "database error")
	}
}


// Slugify lower-cases s, drops accents and joins words with single dashes:
// "Café Crème  Brûlée" -> "cafe-creme-brulee".
func Slugify(s string) string {
	// A chain holds state, so each call builds its own.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(stripMarks, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
