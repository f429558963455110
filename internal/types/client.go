package types

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SPOC is a single point of contact at a client.
type SPOC struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Email       string `json:"email" validate:"required,email_tld"`
	Phone       string `json:"phone" validate:"required,phone10"`
	Designation string `json:"designation,omitempty" validate:"max=120"`
}

// SPOCList is stored as a JSONB array.
type SPOCList []SPOC

// Scan implements the Scanner interface for SPOCList
func (l *SPOCList) Scan(src interface{}) error {
	if src == nil {
		*l = SPOCList{}
		return nil
	}
	return scanJSON(src, l)
}

// Value implements the Valuer interface for SPOCList
func (l SPOCList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// MarshalCSV lists contact names only.
func (l SPOCList) MarshalCSV() (string, error) {
	names := make(StringList, len(l))
	for i, s := range l {
		names[i] = s.Name
	}
	return names.MarshalCSV()
}

// Client is a company the agency recruits for.
type Client struct {
	ID               uuid.UUID `json:"id" csv:"id"`
	Name             string    `json:"name" csv:"name" validate:"required,min=2,max=200"`
	SPOCs            SPOCList  `json:"spocs" csv:"spocs" validate:"required,min=1,dive"`
	PaymentTermsDays int       `json:"payment_terms_days" csv:"payment_terms_days" validate:"gte=0,lte=180"`
	Address          string    `json:"address" csv:"address" validate:"max=500"`
	Status           string    `json:"status" csv:"status" validate:"required,oneof=active inactive"`
	CreatedAt        time.Time `json:"created_at" csv:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" csv:"updated_at"`
}

func (c *Client) GetID() uuid.UUID   { return c.ID }
func (c *Client) SetID(id uuid.UUID) { c.ID = id }
