package cli

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/flipkeeper/internal/client/client"
	"github.com/dmitrijs2005/flipkeeper/internal/common"
	"github.com/dmitrijs2005/flipkeeper/internal/cryptox"
)

// getSimpleText, getPassword and getConfirmation are indirections used to
// facilitate testing.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getConfirmation = GetConfirmation
)

var ErrPasswordMismatch = errors.New("passwords do not match")

// Login unlocks the stored identity key, or offers to create one when none
// is stored, then signs in to the node. When the node is unreachable the
// key stays unlocked and the client works offline until the next ping.
func (a *App) Login(ctx context.Context) error {
	has, err := a.authService.HasKey(ctx)
	if err != nil {
		return err
	}

	if !has {
		create, err := getConfirmation(a.reader, "No identity key stored. Create a new one?", a.out)
		if err != nil {
			return err
		}
		if !create {
			printlnFn("Use 'import' to add an existing key.")
			return nil
		}
		password, err := a.newPassword()
		if err != nil {
			return err
		}
		defer common.WipeByteArray(password)

		key, err := a.authService.CreateKey(ctx, password)
		if err != nil {
			return err
		}
		printlnFn("Created identity", cryptox.Address(key.Public().(ed25519.PublicKey)))
		return a.signIn(ctx, key)
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	key, err := a.authService.Unlock(ctx, password)
	if err != nil {
		return err
	}
	return a.signIn(ctx, key)
}

// Import stores an existing hex-encoded private key.
func (a *App) Import(ctx context.Context) error {
	encoded, err := getSimpleText(a.reader, "Enter private key (hex)", a.out)
	if err != nil {
		return err
	}
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decode key: %w", err)
	}
	defer common.WipeByteArray(raw)

	password, err := a.newPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	key, err := a.authService.ImportKey(ctx, password, raw)
	if err != nil {
		return err
	}
	printlnFn("Imported identity", cryptox.Address(key.Public().(ed25519.PublicKey)))
	return a.signIn(ctx, key)
}

// Forget removes the stored key after confirmation.
func (a *App) Forget(ctx context.Context) error {
	ok, err := getConfirmation(a.reader, "Remove the stored identity key?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.authService.Forget(ctx); err != nil {
		return err
	}
	printlnFn("Identity key removed")
	return nil
}

func (a *App) newPassword() ([]byte, error) {
	password, err := getPassword(a.out, "Choose password")
	if err != nil {
		return nil, err
	}
	repeat, err := getPassword(a.out, "Repeat password")
	if err != nil {
		common.WipeByteArray(password)
		return nil, err
	}
	defer common.WipeByteArray(repeat)

	if !bytes.Equal(password, repeat) {
		common.WipeByteArray(password)
		return nil, ErrPasswordMismatch
	}
	return password, nil
}

func (a *App) signIn(ctx context.Context, key ed25519.PrivateKey) error {
	err := a.authService.SignIn(ctx, key)
	switch {
	case err == nil:
		a.setMode(ModeOnline)
		printlnFn("Signed in")
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
		printlnFn("Node unavailable, working offline")
	default:
		return err
	}

	a.setKey(key)
	a.host.SetKey(ctx, key)
	return nil
}
