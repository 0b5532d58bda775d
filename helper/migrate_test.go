package helper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"unires/config"
	"unires/helper"
)

func TestRunner_UnknownAction(t *testing.T) {
	err := helper.Runner(&config.Config{}, helper.Action("sideways"))

	assert.ErrorContains(t, err, "unknown migration action")
}
