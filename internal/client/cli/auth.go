package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/dmitrijs2005/bibliotube/internal/shared"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for email, username and password and creates the account.
// On success the user is signed in and a link captured before sign-in is
// opened.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	s, err := a.auth.SignUp(ctx, email, username, password)
	if err != nil {
		return err
	}

	a.println("Success! Signed in as", s.Email)
	a.syncQuietly(ctx, "register")
	return a.resumeCapture(ctx)
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	s, err := a.auth.SignIn(ctx, email, password)
	if err != nil {
		a.log.Info(ctx, "login unsuccessful", "error", err)
		return err
	}

	a.log.Info(ctx, "login successful")
	a.println("Signed in as", s.Email)
	a.syncQuietly(ctx, "login")
	return a.resumeCapture(ctx)
}

// Unlock renews the saved session after a presence check.
func (a *App) Unlock(ctx context.Context) error {
	s, err := a.auth.UnlockWithBiometrics(ctx)
	if err != nil {
		return err
	}
	a.println("Signed in as", s.Email)
	a.syncQuietly(ctx, "unlock")
	return a.resumeCapture(ctx)
}

// Logout drops the in-memory session. The saved session stays, so 'unlock'
// can bring it back.
func (a *App) Logout(ctx context.Context) error {
	a.auth.SignOut(ctx)
	a.forget()
	a.println("Logged out.")
	return nil
}

// SignOutAll revokes the refresh token and deletes the saved session.
func (a *App) SignOutAll(ctx context.Context) error {
	if err := a.auth.FullSignOut(ctx); err != nil {
		return err
	}
	a.forget()
	a.println("Signed out.")
	return nil
}

func (a *App) forget() {
	a.lastFolders, a.lastVideos, a.lastReminders = nil, nil, nil
	a.currentFolder = models.Folder{}
	a.currentVideo = models.Video{}
}

// presencePrompt stands in for a biometric check on a terminal: the user
// confirms they are at the keyboard.
type presencePrompt struct {
	app *App
}

func (p presencePrompt) Authenticate(_ context.Context, reason string) (bool, error) {
	return GetYesNo(p.app.reader, fmt.Sprintf("%s. Is that you?", reason), p.app.out)
}
