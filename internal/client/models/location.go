package models

import (
	"fmt"
	"strconv"

	"github.com/contactx/contactx/internal/client/client"
)

// Location is where a card was scanned. Nil fields are unknown and are
// never sent, not even as empty strings.
type Location struct {
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	City             *string  `json:"city,omitempty"`
	Country          *string  `json:"country,omitempty"`
	Street           *string  `json:"street,omitempty"`
	District         *string  `json:"district,omitempty"`
	Region           *string  `json:"region,omitempty"`
	PostalCode       *string  `json:"postalCode,omitempty"`
	AddressName      *string  `json:"addressName,omitempty"`
	FormattedAddress *string  `json:"formattedAddress,omitempty"`
}

func Float(v float64) *float64 { return &v }

func String(v string) *string { return &v }

// AppendQuery adds the known fields to q in a fixed order.
func (l *Location) AppendQuery(q client.Query) client.Query {
	if l == nil {
		return q
	}
	addFloat := func(key string, v *float64) {
		if v != nil {
			q = q.Add(key, strconv.FormatFloat(*v, 'f', -1, 64))
		}
	}
	addString := func(key string, v *string) {
		if v != nil {
			q = q.Add(key, *v)
		}
	}
	addFloat("latitude", l.Latitude)
	addFloat("longitude", l.Longitude)
	addString("city", l.City)
	addString("country", l.Country)
	addString("street", l.Street)
	addString("district", l.District)
	addString("region", l.Region)
	addString("postalCode", l.PostalCode)
	addString("addressName", l.AddressName)
	addString("formattedAddress", l.FormattedAddress)
	return q
}

func (l *Location) Empty() bool {
	return l == nil || len(l.AppendQuery(nil)) == 0
}

type ScanSource string

const (
	ScanSourceQR   ScanSource = "qr"
	ScanSourceLink ScanSource = "link"
)

func ParseScanSource(s string) (ScanSource, error) {
	switch ScanSource(s) {
	case ScanSourceQR, ScanSourceLink:
		return ScanSource(s), nil
	}
	return "", fmt.Errorf("unknown scan source %q", s)
}

type ImageKind string

const (
	ImageKindLogo    ImageKind = "logo"
	ImageKindProfile ImageKind = "profile"
	ImageKindCover   ImageKind = "cover"
)

func ParseImageKind(s string) (ImageKind, error) {
	switch ImageKind(s) {
	case ImageKindLogo, ImageKindProfile, ImageKindCover:
		return ImageKind(s), nil
	}
	return "", fmt.Errorf("unknown image type %q", s)
}
