package storage

import (
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/errors"
)

// Config points the backend at its store; `file://<path>` opens an on-disk
// database, `memory://` an in-memory one.
type Config struct {
	Scheme string
	Path   string
}

func NewConfigFromString(s string) (config *Config, err error) {
	var u *url.URL
	if u, err = url.Parse(s); err != nil {
		return
	}

	switch u.Scheme {
	case "file":
		path := filepath.Join(u.Host, u.Path)
		if len(path) < 1 {
			err = errors.StorageCoreError.Clone().SetData("error", "empty path for file storage")
			return
		}
		config = &Config{Scheme: "file", Path: path}
	case "memory":
		config = &Config{Scheme: "memory"}
	default:
		err = errors.StorageCoreError.Clone().SetData(
			"error",
			fmt.Sprintf("unknown storage scheme, '%s'", u.Scheme),
		)
	}

	return
}

func (c *Config) String() string {
	if c.Scheme == "memory" {
		return "memory://"
	}
	return fmt.Sprintf("%s://%s", c.Scheme, c.Path)
}
