package sheets

import (
	"context"
	"fmt"

	"github.com/valora-mx/estimator-api/pkg/model"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// timestampLayout matches the format the lead spreadsheet has always used.
const timestampLayout = "2006-01-02 15:04:05"

// Client appends completed estimations to the lead spreadsheet. Writes are
// best-effort: the caller logs and swallows failures, they never block the
// user-visible result.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

// New creates a Sheets client from service-account JSON credentials.
func New(ctx context.Context, creds []byte, spreadsheetID, sheetName string) (*Client, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("init sheets service: %w", err)
	}
	if sheetName == "" {
		sheetName = "Leads"
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// Append writes one row for the lead, columns A through L.
func (c *Client) Append(ctx context.Context, lead model.Lead) error {
	rangeRef := fmt.Sprintf("%s!A:L", c.sheetName)
	body := &sheets.ValueRange{Values: [][]any{leadRow(lead)}}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rangeRef, body).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append lead row: %w", err)
	}
	return nil
}

// leadRow flattens a lead into the fixed column order:
// timestamp, propertyType, address, land, built, bedrooms, bathrooms,
// fullName, email, phone, interestLevel, estimatedPrice.
func leadRow(lead model.Lead) []any {
	address := lead.Property.Address
	if lead.Location != nil && lead.Location.ResolvedAddress != "" {
		address = lead.Location.ResolvedAddress
	}
	return []any{
		lead.CreatedAt.Format(timestampLayout),
		string(lead.Property.PropertyType),
		address,
		lead.Property.LandAreaM2,
		lead.Property.BuiltAreaM2,
		lead.Property.Bedrooms,
		lead.Property.Bathrooms,
		lead.Contact.FullName(),
		lead.Contact.Email,
		lead.Contact.Phone,
		lead.Contact.InterestLevel.Label(),
		lead.Estimate.PointEstimate,
	}
}
