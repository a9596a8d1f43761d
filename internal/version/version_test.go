package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringWithoutCommit(t *testing.T) {
	old := Commit
	Commit = ""
	defer func() { Commit = old }()

	assert.Equal(t, Version, String())
}

func TestStringWithCommit(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	Version, Commit = "1.2.0", "abc1234"
	defer func() { Version, Commit = oldVersion, oldCommit }()

	assert.Equal(t, "1.2.0 (abc1234)", String())
}
