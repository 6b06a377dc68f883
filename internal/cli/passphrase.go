package cli

import (
	"bufio"
	"errors"
	"strings"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
)

// PassphraseCmd prints the bcrypt hash for ACCESS_PASSPHRASE_HASH. It does
// not touch the store.
type PassphraseCmd struct {
	Passphrase string `arg:"" optional:"" help:"Passphrase to hash (read from stdin when omitted)."`
}

func (c *PassphraseCmd) Run(ctx *Context) error {
	plain := c.Passphrase
	if plain == "" {
		if ctx.In == nil {
			return errors.New("no passphrase given")
		}
		line, err := bufio.NewReader(ctx.In).ReadString('\n')
		if err != nil && line == "" {
			return errors.New("no passphrase given")
		}
		plain = strings.TrimRight(line, "\r\n")
	}

	hash, err := domain.HashPassphrase(plain)
	if err != nil {
		return err
	}

	ctx.printf("ACCESS_PASSPHRASE_HASH=%s\n", hash)
	return nil
}
