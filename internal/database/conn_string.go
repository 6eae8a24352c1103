package database

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/rickgao/coin-ticker/internal/config"
)

// BuildConnString builds a PostgreSQL connection URL from config.
// IPv6 hosts may be given with or without brackets.
func BuildConnString(cfg config.DatabaseConfig) string {
	host := strings.TrimSuffix(strings.TrimPrefix(cfg.Host, "["), "]")

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Name,
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = config.DefaultDBSSLMode
	}
	u.RawQuery = url.Values{"sslmode": {sslMode}}.Encode()

	return u.String()
}
