package main

import (
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func TestProjectInputValidation(t *testing.T) {
	valid := projectInput{ProjectName: "Website"}
	assert.NoError(t, binding.Validator.ValidateStruct(&valid))

	for name, in := range map[string]projectInput{
		"empty":     {},
		"too long":  {ProjectName: strings.Repeat("p", 101)},
		"non-ascii": {ProjectName: "Projekt Überblick"},
	} {
		assert.Error(t, binding.Validator.ValidateStruct(&in), name)
	}
}

func TestProjectAddRequiresName(t *testing.T) {
	rootCmd.SetArgs([]string{"project", "add"})
	err := rootCmd.Execute()
	assert.Error(t, err)
}
