package system

import (
	"errors"
	"fmt"

	"github.com/kunal-511/weekendly/internal/cli"
	"github.com/kunal-511/weekendly/internal/constants"
	"github.com/kunal-511/weekendly/internal/keyring"
	"github.com/kunal-511/weekendly/internal/storage/postgres"
	redisstore "github.com/kunal-511/weekendly/internal/storage/redis"
)

// KeyringSetCmd stores the storage DSN in the OS keyring
type KeyringSetCmd struct {
	DSN string `arg:"" help:"PostgreSQL connection string or redis:// URL to store in the keyring."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	switch {
	case cmd.DSN == constants.KeyringDSN:
		return errors.New("the keyring DSN cannot point back to the keyring")
	case redisstore.IsURL(cmd.DSN):
	case postgres.IsConnString(cmd.DSN):
		if _, err := postgres.ValidateConnString(cmd.DSN); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
			fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
		}
	default:
		return errors.New("DSN must be a PostgreSQL connection string or a redis:// URL")
	}

	if err := keyring.SetDSN(cmd.DSN); err != nil {
		return err
	}

	fmt.Println("✓ Storage DSN stored successfully in OS keyring")
	fmt.Printf("  Set dsn = %q in config.toml or pass --dsn %s to use it\n", constants.KeyringDSN, constants.KeyringDSN)
	return nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	dsn, err := keyring.GetDSN()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no storage DSN found in keyring. Use 'weekendly keyring set' to store one")
		}
		return fmt.Errorf("failed to retrieve storage DSN from keyring: %w", err)
	}

	fmt.Println("Storage DSN retrieved from keyring:")
	fmt.Println(keyring.Mask(dsn))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteDSN(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no storage DSN found in keyring")
		}
		return err
	}

	fmt.Println("✓ Storage DSN deleted from OS keyring")
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	fmt.Println("✓ OS keyring is available")

	_, err := keyring.GetDSN()
	switch {
	case err == nil:
		fmt.Println("✓ Storage DSN is stored in keyring")
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Println("ℹ No storage DSN stored in keyring")
	default:
		return err
	}
	return nil
}
