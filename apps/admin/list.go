package main

import (
	"context"
	"encoding/json"

	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/school"
	"github.com/trezcool/presensi/core/store"
)

// list prints one collection of the logged in admin's school, or of schoolID when set.
func (cli *commandLine) list(ctx context.Context, resource, schoolID string) error {
	adm, err := cli.restore(ctx)
	if err != nil {
		return err
	}
	if schoolID == "" && resource != school.Name {
		schoolID = adm.SchoolID.String()
	}

	op, err := store.ListOp(resource, core.ID(schoolID))
	if err != nil {
		return err
	}
	v, err := cli.store.Dispatch(ctx, op)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
