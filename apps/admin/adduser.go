package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
)

// addUser creates an active user, or updates the role and password of the user with that email.
func (cli *commandLine) addUser(name, email, pwd string, role user.Role) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	switch {
	case err == nil:
		usr.Role = role
		usr.IsActive = true
		if err = usr.SetPassword(pwd); err != nil {
			return errors.Wrap(err, "setting password")
		}
		if _, err = cli.usrSvc.Save(ctx, usr); err != nil {
			return errors.Wrap(err, "updating user")
		}
		_, _ = fmt.Fprintf(cli.out, "updated %s (%s)\n", email, role)
		return nil

	case errors.Cause(err) == user.ErrNotFound:
		usr, err = cli.usrSvc.Create(ctx, user.NewUser{Name: name, Email: email, Role: role, Password: pwd})
		if err != nil {
			return errors.Wrap(err, "creating user")
		}
		_, _ = fmt.Fprintf(cli.out, "created %s (%s) with id %s\n", email, role, usr.ID)
		return nil

	default:
		return errors.Wrap(err, "finding user by email")
	}
}
