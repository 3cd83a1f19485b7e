package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/theirongolddev/stackcost/internal/remote"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Wire types mirror the catalog document; pointer fields distinguish
// "missing" from "zero" for required keys.

type document struct {
	Config     *configDoc    `json:"config" validate:"required"`
	Categories []categoryDoc `json:"categories" validate:"required,dive"`
	Apps       []appDoc      `json:"apps" validate:"required,dive"`
}

type configDoc struct {
	PageTitle        string         `json:"pageTitle"`
	HeaderTitle      string         `json:"headerTitle"`
	HeaderSubtitle   string         `json:"headerSubtitle"`
	StartButtonText  string         `json:"startButtonText"`
	ExportButtonText string         `json:"exportButtonText"`
	APIs             apisDoc        `json:"apis"`
	AI               aiDoc          `json:"ai"`
	Currencies       *currenciesDoc `json:"currencies" validate:"required"`
	Themes           []themeDoc     `json:"themes" validate:"dive"`
	Templates        []templateDoc  `json:"templates" validate:"dive"`
}

type apisDoc struct {
	Currency     string `json:"currency"`
	IconSearch   string `json:"iconSearch"`
	IconRetrieve string `json:"iconRetrieve"`
	PieChart     string `json:"pieChart"`
}

type aiDoc struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type currenciesDoc struct {
	Supported []string `json:"supported" validate:"required,min=1,dive,required"`
	Default   string   `json:"default" validate:"required"`
}

type themeColorsDoc struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

type themeDoc struct {
	Name       string         `json:"name" validate:"required"`
	FontFamily string         `json:"fontFamily"`
	Light      themeColorsDoc `json:"light"`
	Dark       themeColorsDoc `json:"dark"`
}

type templateDoc struct {
	Name   string   `json:"name" validate:"required"`
	AppIDs []flexID `json:"appIds"`
}

type categoryDoc struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type appDoc struct {
	ID          *flexID  `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Icon        string   `json:"icon"`
	Cost        *costDoc `json:"cost" validate:"required"`
}

type costDoc struct {
	Monthly  *json.Number `json:"monthly" validate:"required"`
	Yearly   *json.Number `json:"yearly" validate:"required"`
	Currency string       `json:"currency" validate:"required"`
}

// flexID accepts an integer id written as a JSON number or a numeric string.
type flexID int

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("id %s is not an integer", b)
	}
	*f = flexID(n)
	return nil
}

func (f flexID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(f))), nil
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	getter remote.Getter
}

// WithGetter sets the HTTP getter used for URL sources.
func WithGetter(g remote.Getter) LoadOption {
	return func(o *loadOptions) { o.getter = g }
}

// Load reads and parses a catalog from a file path or http(s) URL.
// Errors are always *LoadError.
func Load(ctx context.Context, source string, opts ...LoadOption) (*Catalog, error) {
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	data, err := read(ctx, source, o.getter)
	if err != nil {
		return nil, &LoadError{Reason: Unreachable, Source: source, Err: err}
	}

	cat, lerr := parse(data)
	if lerr != nil {
		lerr.Source = source
		return nil, lerr
	}
	cat.source = source
	return cat, nil
}

func read(ctx context.Context, source string, g remote.Getter) ([]byte, error) {
	if strings.TrimSpace(source) == "" {
		return nil, errors.New("no catalog source configured")
	}
	if remote.IsURL(source) {
		if g == nil {
			g = remote.New()
		}
		return g.Get(ctx, source)
	}
	return os.ReadFile(source) //nolint:gosec // catalog path is chosen by the local user
}

// Parse decodes a catalog document. Errors are always *LoadError with Reason Malformed.
func Parse(data []byte) (*Catalog, error) {
	cat, err := parse(data)
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func parse(data []byte) (*Catalog, *LoadError) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, malformed("empty document")
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Reason: Malformed, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := structValidator().Struct(doc); err != nil {
		return nil, &LoadError{Reason: Malformed, Err: describeValidation(err)}
	}

	cat, lerr := fromDocument(doc)
	if lerr != nil {
		return nil, lerr
	}
	if lerr := cat.index(); lerr != nil {
		return nil, lerr
	}
	return cat, nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "document.")
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, field+" must not be empty")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fromDocument(doc document) (*Catalog, *LoadError) {
	cfg := doc.Config
	cat := &Catalog{
		ui: UIText{
			PageTitle:        cfg.PageTitle,
			HeaderTitle:      cfg.HeaderTitle,
			HeaderSubtitle:   cfg.HeaderSubtitle,
			StartButtonText:  cfg.StartButtonText,
			ExportButtonText: cfg.ExportButtonText,
		},
		apis: APIs(cfg.APIs),
		ai:   AI(cfg.AI),
		currencies: CurrencyConfig{
			Supported: trimAll(cfg.Currencies.Supported),
			Default:   strings.TrimSpace(cfg.Currencies.Default),
		},
	}

	for _, t := range cfg.Themes {
		cat.themes = append(cat.themes, Theme{
			Name:       t.Name,
			FontFamily: t.FontFamily,
			Light:      ThemeColors(t.Light),
			Dark:       ThemeColors(t.Dark),
		})
	}
	for _, t := range cfg.Templates {
		ids := make([]int, len(t.AppIDs))
		for i, id := range t.AppIDs {
			ids[i] = int(id)
		}
		cat.templates = append(cat.templates, Template{Name: t.Name, AppIDs: ids})
	}
	for _, c := range doc.Categories {
		cat.categories = append(cat.categories, Category(c))
	}
	for i, a := range doc.Apps {
		monthly, err := decimal.NewFromString(a.Cost.Monthly.String())
		if err != nil {
			return nil, malformed("apps[%d].cost.monthly: %v", i, err)
		}
		yearly, err := decimal.NewFromString(a.Cost.Yearly.String())
		if err != nil {
			return nil, malformed("apps[%d].cost.yearly: %v", i, err)
		}
		cat.apps = append(cat.apps, App{
			ID:          int(*a.ID),
			Name:        a.Name,
			Description: a.Description,
			Category:    a.Category,
			Icon:        a.Icon,
			Cost: Cost{
				Monthly:  monthly,
				Yearly:   yearly,
				Currency: strings.TrimSpace(a.Cost.Currency),
			},
		})
	}
	return cat, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}
