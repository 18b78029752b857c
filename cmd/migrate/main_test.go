package main

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	upErr      error
	downErr    error
	version    uint
	dirty      bool
	versionErr error
	ups        int
	downs      int
}

func (f *fakeMigrator) Up() error   { f.ups++; return f.upErr }
func (f *fakeMigrator) Down() error { f.downs++; return f.downErr }
func (f *fakeMigrator) Version() (uint, bool, error) {
	return f.version, f.dirty, f.versionErr
}

func TestApply_UpNoChangeIsNotAnError(t *testing.T) {
	m := &fakeMigrator{upErr: migrate.ErrNoChange}

	err := apply(m, "up")

	require.NoError(t, err)
	assert.Equal(t, 1, m.ups)
}

func TestApply_UpFailurePropagates(t *testing.T) {
	m := &fakeMigrator{upErr: errors.New("dirty database")}

	err := apply(m, "up")

	assert.ErrorContains(t, err, "dirty database")
}

func TestApply_Down(t *testing.T) {
	m := &fakeMigrator{}

	err := apply(m, "down")

	require.NoError(t, err)
	assert.Equal(t, 1, m.downs)
}

func TestApply_VersionOnFreshDatabase(t *testing.T) {
	m := &fakeMigrator{versionErr: migrate.ErrNilVersion}

	err := apply(m, "version")

	assert.NoError(t, err)
}

func TestApply_UnknownCommand(t *testing.T) {
	m := &fakeMigrator{}

	err := apply(m, "sideways")

	assert.ErrorContains(t, err, "sideways")
	assert.Zero(t, m.ups)
	assert.Zero(t, m.downs)
}
