package scanner

import (
	"path"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
)

// Language names reported for scanned files
const (
	LanguageGo         = "go"
	LanguageJava       = "java"
	LanguageJavaScript = "javascript"
	LanguageText       = "text"
)

type language struct {
	name    string
	grammar func() *sitter.Language
}

var languages = map[string]*language{
	".go":   {name: LanguageGo, grammar: golang.GetLanguage},
	".java": {name: LanguageJava, grammar: java.GetLanguage},
	".js":   {name: LanguageJavaScript, grammar: javascript.GetLanguage},
	".jsx":  {name: LanguageJavaScript, grammar: javascript.GetLanguage},
	".mjs":  {name: LanguageJavaScript, grammar: javascript.GetLanguage},
	".cjs":  {name: LanguageJavaScript, grammar: javascript.GetLanguage},
}

var textExtensions = map[string]bool{"": true, ".txt": true, ".md": true, ".rst": true}

var licenseFileName = regexp.MustCompile(`(?i)^(LICENSE|LICENCE|README|COPYING|NOTICE|LICENSE-.*|UNLICENSE|UNLICENCE)(\.(md|txt|rst))?$`)

// languageOf returns source language for location, nil for plain text
func languageOf(location string) *language {
	return languages[strings.ToLower(path.Ext(location))]
}

// IsLicenseFile returns true for file names conventionally holding license text
func IsLicenseFile(location string) bool {
	return licenseFileName.MatchString(path.Base(location))
}

// IsSupported returns true for files the scanner reads
func IsSupported(location string) bool {
	if IsLicenseFile(location) {
		return true
	}
	ext := strings.ToLower(path.Ext(location))
	return languages[ext] != nil || textExtensions[ext]
}
