// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth.go - Session commands: login, register, logout, whoami.
//
// Examples:
//   zenitalk login --email ada@example.com
//   zenitalk register --name Ada --surname Lovelace --email ada@example.com
//   printf 'secret\n' | zenitalk login --email ada@example.com
//   zenitalk whoami --json
//
// Passwords are read without echo on a terminal and never accepted as flags.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zenitalk/zenitalk-tui/internal/logging"
	"github.com/zenitalk/zenitalk-tui/internal/session"
)

// =============================================================================
// LOGIN / REGISTER
// =============================================================================

// HandleLogin handles the "login" command.
func HandleLogin(ctx context.Context, rt *Runtime, io *IO, args Args) error {
	p := args.Parser()

	email, err := flagOrPrompt(io, p.Flag("email", "e"), "Email: ")
	if err != nil {
		return promptError("login", err)
	}
	password, err := io.ReadSecret("Password: ")
	if err != nil {
		return promptError("login", err)
	}

	if err := session.ValidateLogin(email, password); err != nil {
		return &CommandError{Command: "login", Reason: err.Error(), Err: err}
	}
	if err := rt.Store.Login(ctx, email, password); err != nil {
		return &CommandError{Command: "login", Reason: err.Error(), Err: err}
	}

	return printIdentity(rt, io, args, "login", "Logged in as ")
}

// HandleRegister handles the "register" command.
func HandleRegister(ctx context.Context, rt *Runtime, io *IO, args Args) error {
	p := args.Parser()

	var f session.RegisterForm
	var err error
	if f.Name, err = flagOrPrompt(io, p.Flag("name"), "Name: "); err != nil {
		return promptError("register", err)
	}
	if f.Surname, err = flagOrPrompt(io, p.Flag("surname"), "Surname: "); err != nil {
		return promptError("register", err)
	}
	if f.Email, err = flagOrPrompt(io, p.Flag("email", "e"), "Email: "); err != nil {
		return promptError("register", err)
	}
	if f.Password, err = io.ReadSecret("Password: "); err != nil {
		return promptError("register", err)
	}
	if f.ConfirmPassword, err = io.ReadSecret("Confirm password: "); err != nil {
		return promptError("register", err)
	}

	if err := session.ValidateRegister(f); err != nil {
		return &CommandError{Command: "register", Reason: err.Error(), Err: err}
	}
	if err := rt.Store.Register(ctx, f.Name, f.Surname, f.Email, f.Password); err != nil {
		return &CommandError{Command: "register", Reason: err.Error(), Err: err}
	}

	return printIdentity(rt, io, args, "register", "Account created. Logged in as ")
}

func flagOrPrompt(io *IO, value, prompt string) (string, error) {
	if v := strings.TrimSpace(value); v != "" {
		return v, nil
	}
	v, err := io.ReadLine(prompt)
	return strings.TrimSpace(v), err
}

func promptError(command string, err error) error {
	if errors.Is(err, io.EOF) {
		return &CommandError{Command: command, Reason: "input ended before all fields were entered", Err: err}
	}
	return &CommandError{Command: command, Reason: err.Error(), Err: err}
}

// =============================================================================
// LOGOUT
// =============================================================================

// HandleLogout handles the "logout" command. It never contacts the backend.
func HandleLogout(rt *Runtime, io *IO, args Args) error {
	was := rt.Store.Snapshot().Authenticated()
	rt.Store.Logout()

	if args.JSON {
		return NewJSONResponse("logout", map[string]bool{"was_logged_in": was}).Print(io.Out)
	}
	if was {
		fmt.Fprintln(io.Out, SuccessStyle.Render("Logged out."))
	} else {
		fmt.Fprintln(io.Out, DimStyle.Render("Not logged in."))
	}
	return nil
}

// =============================================================================
// WHOAMI
// =============================================================================

// WhoamiData is the JSON payload of whoami, login and register.
type WhoamiData struct {
	Authenticated bool   `json:"authenticated"`
	Name          string `json:"name,omitempty"`
	Surname       string `json:"surname,omitempty"`
	Email         string `json:"email,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	TokenFP       string `json:"token_fingerprint,omitempty"`
	Reconcile     string `json:"reconcile,omitempty"`
}

func whoamiData(rt *Runtime) WhoamiData {
	st := rt.Store.Snapshot()
	data := WhoamiData{
		Authenticated: st.Authenticated(),
		TokenFP:       logging.Fingerprint(st.Token),
	}
	if u := st.User; u != nil {
		data.Name = u.Name
		data.Surname = u.Surname
		data.Email = u.Email
		data.UserID = string(u.ID)
	}
	return data
}

// HandleWhoami reconciles the stored session with the backend and reports
// the identity. Only an invalidating status ends the session; any other
// failure keeps it and says so.
func HandleWhoami(ctx context.Context, rt *Runtime, io *IO, args Args) error {
	outcome := rt.Store.Reconcile(ctx)

	data := whoamiData(rt)
	data.Reconcile = outcome.String()
	if args.JSON {
		return NewJSONResponse("whoami", data).Print(io.Out)
	}

	switch outcome {
	case session.OutcomeInvalidated:
		fmt.Fprintln(io.Out, WarningStyle.Render("Your session has expired. Run 'zenitalk login' to log in again."))
		return nil
	case session.OutcomeKept:
		fmt.Fprintln(io.Err, WarningStyle.Render("Could not verify the session with the backend; showing what is stored."))
	}

	if !data.Authenticated {
		fmt.Fprintln(io.Out, "Not logged in (chatting as a guest).")
		return nil
	}
	printProfile(io, data)
	return nil
}

func printIdentity(rt *Runtime, io *IO, args Args, command, prefix string) error {
	data := whoamiData(rt)
	if args.JSON {
		return NewJSONResponse(command, data).Print(io.Out)
	}
	name := strings.TrimSpace(data.Name + " " + data.Surname)
	if name == "" {
		name = data.Email
	}
	fmt.Fprintln(io.Out, SuccessStyle.Render(prefix+name+"."))
	return nil
}

func printProfile(io *IO, data WhoamiData) {
	rows := [][2]string{
		{"Name", data.Name},
		{"Surname", data.Surname},
		{"Email", data.Email},
	}
	if data.UserID != "" {
		rows = append(rows, [2]string{"User ID", data.UserID})
	}
	rows = append(rows, [2]string{"Token", data.TokenFP})
	for _, r := range rows {
		if r[1] == "" {
			r[1] = "-"
		}
		fmt.Fprintln(io.Out, RenderLabel(r[0])+r[1])
	}
}
