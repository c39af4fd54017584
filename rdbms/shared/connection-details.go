package shared

import (
	"fmt"
	"strings"

	"github.com/dwops/batchgate/constants"
	"github.com/xo/dburl"
)

// ConnectionDetails is intended to hold credentials for a logical database or
// S3 connection, persisted in the connections config file.
type ConnectionDetails struct {
	Type        string            `json:"type" errorTxt:"connection type" mandatory:"yes" yaml:"type"`
	LogicalName string            `json:"logicalName" errorTxt:"connection logical name" mandatory:"yes" yaml:"logicalName"`
	Data        map[string]string `json:"data" yaml:"data"`
}

// String redacts passwords and pretty-prints the contents of ConnectionDetails.
func (c ConnectionDetails) String() string {
	x := make([]string, 0, len(c.Data)+1)
	x = append(x, fmt.Sprintf("  type = %v", c.Type))
	if v, ok := c.Data["dsn"]; ok { // if there's a DSN...
		// Parse the connection to remove passwords.
		switch c.Type {
		case constants.ConnectionTypeNetezza:
			n := NetezzaConnectionDetails{Dsn: v}
			v = n.Redacted()
		default:
			u, err := dburl.Parse(v)
			if err != nil {
				v = "<unparsable dsn>"
			} else {
				v = u.Redacted()
			}
		}
		x = append(x, fmt.Sprintf("  dsn = %v", v))
	} else { // else there's no DSN... (could be an S3 connection)
		for k, v := range c.Data {
			if k == "password" || k == "secret" {
				v = "xxxxx"
			}
			x = append(x, fmt.Sprintf("  %v = %v", k, v))
		}
	}
	return strings.Join(x, "\n")
}

var DefaultDsnConnectionKeyNames = struct {
	Dsn string
}{
	Dsn: "dsn",
}

// DsnConnectionDetails holds a single data source name for connection types
// that are fully described by a DSN string.
type DsnConnectionDetails struct {
	Dsn string `errorTxt:"data source name i.e. connect string" mandatory:"yes"`
}

func (d *DsnConnectionDetails) String() string {
	u, err := dburl.Parse(d.Dsn)
	if err != nil {
		return "<unparsable dsn>"
	}
	return u.Redacted()
}

func (d DsnConnectionDetails) Parse() error {
	if d.Dsn == "" { // if the Dsn is invalid...
		return fmt.Errorf("DSN not found")
	}
	if _, err := dburl.Parse(d.Dsn); err != nil {
		return fmt.Errorf("DSN could not be parsed: %w", err)
	}
	return nil
}

func (d DsnConnectionDetails) GetScheme() (string, error) {
	u, err := dburl.Parse(d.Dsn)
	if err != nil {
		return "", err
	}
	return u.OriginalScheme, nil
}

func (d DsnConnectionDetails) GetMap(m map[string]string) map[string]string {
	if m == nil {
		m = make(map[string]string)
	}
	m[DefaultDsnConnectionKeyNames.Dsn] = d.Dsn
	return m
}

// GetDsnConnectionDetails extracts DSN details from generic ConnectionDetails.
func GetDsnConnectionDetails(c *ConnectionDetails) *DsnConnectionDetails {
	return &DsnConnectionDetails{Dsn: c.Data[DefaultDsnConnectionKeyNames.Dsn]}
}

// DsnConnectionDetailsToMap saves the DSN into map m ready for persistence.
func DsnConnectionDetailsToMap(m map[string]string, d *DsnConnectionDetails) map[string]string {
	if m == nil {
		m = make(map[string]string)
	}
	m[DefaultDsnConnectionKeyNames.Dsn] = d.Dsn
	return m
}
