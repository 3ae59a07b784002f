package diagsink

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/azuread"
	"golang.org/x/net/proxy"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open dials the configured sink database. The dsn scheme picks the
// driver: azuresql:// for Azure AD login, sqlserver:// for SQL
// authentication (both via go-mssqldb, tunneled through SQL_SOCKS if set,
// exactly like OpenSocks5Sql), or postgres(ql):// for the
// pgx/v5 stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	switch {
	case strings.HasPrefix(dsn, "azuresql://"):
		connector, err := azuread.NewConnector(dsn)
		if err != nil {
			return nil, err
		}
		if err := dialSocks5(connector); err != nil {
			return nil, err
		}
		return sql.OpenDB(connector), nil
	case strings.HasPrefix(dsn, "sqlserver://"):
		connector, err := mssql.NewConnector(dsn)
		if err != nil {
			return nil, err
		}
		if err := dialSocks5(connector); err != nil {
			return nil, err
		}
		return sql.OpenDB(connector), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return sql.Open("pgx", dsn)
	default:
		return nil, errors.New("diagsink: expected a URI-style dsn (azuresql://, sqlserver:// or postgres://)")
	}
}

// dialSocks5 tunnels connector's traffic through SQL_SOCKS if set, the same
// opt-in mechanism as OpenSocks5Sql.
func dialSocks5(connector *mssql.Connector) error {
	socksProxyAddress := os.Getenv("SQL_SOCKS")
	if socksProxyAddress == "" {
		return nil
	}
	dialer, err := proxy.SOCKS5("tcp", socksProxyAddress, nil, nil)
	if err != nil {
		return fmt.Errorf("could not connect with SOCKS5 to %s because of: %w", socksProxyAddress, err)
	}
	connector.Dialer = dialer.(proxy.ContextDialer)
	return nil
}
