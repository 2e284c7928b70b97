package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/vmartins/studysync/internal/keyring"
)

type TokenSetCmd struct {
	Token string `arg:"" optional:"" help:"Token value. Prompted for when omitted."`
}

func (c *TokenSetCmd) Run(ctx *Context) error {
	token := c.Token
	if token == "" {
		input := huh.NewInput().
			Title("Notion API token").
			EchoMode(huh.EchoModePassword).
			Value(&token)
		if err := input.Run(); err != nil {
			return err
		}
	}
	if err := keyring.SetToken(token); err != nil {
		return err
	}
	fmt.Println("Token stored in the OS keyring.")
	return nil
}

type TokenClearCmd struct{}

func (c *TokenClearCmd) Run(ctx *Context) error {
	if err := keyring.DeleteToken(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			fmt.Println("No token was stored.")
			return nil
		}
		return err
	}
	fmt.Println("Token removed from the OS keyring.")
	return nil
}
