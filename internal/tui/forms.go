package tui

import (
	"errors"
	"strings"

	"github.com/theirongolddev/stackcost/internal/session"

	"github.com/charmbracelet/huh"
)

// DetailsValues backs the report details form.
type DetailsValues struct {
	PreparerName    string
	PreparerAddress string
	ClientName      string
	ClientAddress   string
	Notes           string
}

// DetailsFrom copies session details into form values.
func DetailsFrom(d session.Details) *DetailsValues {
	return &DetailsValues{
		PreparerName:    d.PreparerName,
		PreparerAddress: d.PreparerAddress,
		ClientName:      d.ClientName,
		ClientAddress:   d.ClientAddress,
		Notes:           d.Notes,
	}
}

// Details converts the form values back into session details.
func (v *DetailsValues) Details() session.Details {
	return session.Details{
		PreparerName:    strings.TrimSpace(v.PreparerName),
		PreparerAddress: strings.TrimSpace(v.PreparerAddress),
		ClientName:      strings.TrimSpace(v.ClientName),
		ClientAddress:   strings.TrimSpace(v.ClientAddress),
		Notes:           strings.TrimSpace(v.Notes),
	}
}

// NewDetailsForm builds the form filled in before a report export.
func NewDetailsForm(v *DetailsValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Report details").
				Description("These appear in the report header.\nLeave a field empty to omit it."),
			huh.NewInput().
				Title("Prepared by").
				Value(&v.PreparerName),
			huh.NewInput().
				Title("Preparer address").
				Value(&v.PreparerAddress),
			huh.NewInput().
				Title("Client").
				Placeholder("My Business").
				Value(&v.ClientName),
			huh.NewInput().
				Title("Client address").
				Value(&v.ClientAddress),
			huh.NewText().
				Title("Notes").
				Lines(4).
				Value(&v.Notes),
		),
	).WithShowHelp(false)
}

// SetupValues backs the first-run setup form.
type SetupValues struct {
	Catalog       string
	Currency      string
	Cycle         string
	Theme         string
	PreparerName  string
	PreparerAddr  string
	Logo          string
	ChartRenderer string
}

// NewSetupForm builds the setup wizard. currencies and themes are the choices
// offered; an empty currencies list turns the currency field into free text.
func NewSetupForm(v *SetupValues, currencies, themes []string) *huh.Form {
	var currencyField huh.Field
	if len(currencies) > 0 {
		currencyField = huh.NewSelect[string]().
			Title("Display currency").
			Options(huh.NewOptions(currencies...)...).
			Value(&v.Currency)
	} else {
		currencyField = huh.NewInput().
			Title("Display currency").
			Description("Leave empty to use the catalog default.").
			Value(&v.Currency)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to stackcost!").
				Description("Let's point at a catalog and pick your defaults."),
			huh.NewInput().
				Title("Catalog").
				Description("Path or URL of the app catalog.").
				Value(&v.Catalog).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("a catalog is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			currencyField,
			huh.NewSelect[string]().
				Title("Billing cycle").
				Options(
					huh.NewOption("Monthly", "monthly"),
					huh.NewOption("Yearly", "yearly"),
				).
				Value(&v.Cycle),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(themes...)...).
				Value(&v.Theme),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Your name or company").
				Value(&v.PreparerName),
			huh.NewInput().
				Title("Your address").
				Value(&v.PreparerAddr),
			huh.NewInput().
				Title("Logo file").
				Description("PNG, JPEG, or GIF shown on reports.").
				Value(&v.Logo),
			huh.NewSelect[string]().
				Title("Chart renderer").
				Options(
					huh.NewOption("Remote chart service", "remote"),
					huh.NewOption("Local (offline)", "local"),
				).
				Value(&v.ChartRenderer),
		),
	).WithShowHelp(false)
}
