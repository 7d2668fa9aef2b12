package main

import (
	"context"

	"github.com/pkg/errors"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "setting password")
	}
	_, err = cli.usrSvc.Save(ctx, usr)
	return errors.Wrap(err, "saving user")
}
