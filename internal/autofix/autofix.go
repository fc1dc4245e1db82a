// Package autofix turns a secret finding into step-by-step remediation with
// ready-to-paste code for the file's language.
package autofix

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/codeshield/codeshield/internal/rules"
	"github.com/codeshield/codeshield/internal/types"
)

// Language is a remediation target.
type Language string

const (
	Python     Language = "python"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Go         Language = "go"
	Java       Language = "java"
	Ruby       Language = "ruby"
	PHP        Language = "php"
	CSharp     Language = "csharp"
	Rust       Language = "rust"
	Shell      Language = "shell"
)

// DefaultLanguage is used for unknown extensions.
const DefaultLanguage = Python

const envFile = ".env"

type naming int

const (
	snake naming = iota
	camel
)

// template is the fixed remediation record for one language. Placeholders:
// {ENV} env var name, {ident} variable name.
type template struct {
	display string
	imports string
	read    string
	assign  string
	guard   string
	naming  naming
}

var templates = map[Language]template{
	Python: {
		display: "Python",
		imports: "import os",
		read:    `os.environ.get("{ENV}")`,
		assign:  `{ident} = os.environ.get("{ENV}")`,
		guard:   "if not {ident}:\n    raise ValueError(\"{ENV} environment variable is not set\")",
	},
	JavaScript: {
		display: "JavaScript",
		imports: `require("dotenv").config();`,
		read:    "process.env.{ENV}",
		assign:  "const {ident} = process.env.{ENV};",
		guard:   "if (!{ident}) {\n  throw new Error(\"{ENV} environment variable is not set\");\n}",
		naming:  camel,
	},
	TypeScript: {
		display: "TypeScript",
		imports: `import "dotenv/config";`,
		read:    "process.env.{ENV}",
		assign:  "const {ident} = process.env.{ENV};",
		guard:   "if (!{ident}) {\n  throw new Error(\"{ENV} environment variable is not set\");\n}",
		naming:  camel,
	},
	Go: {
		display: "Go",
		imports: "import (\n\t\"log\"\n\t\"os\"\n)",
		read:    `os.Getenv("{ENV}")`,
		assign:  `{ident} := os.Getenv("{ENV}")`,
		guard:   "if {ident} == \"\" {\n\tlog.Fatal(\"{ENV} environment variable is not set\")\n}",
		naming:  camel,
	},
	Java: {
		display: "Java",
		read:    `System.getenv("{ENV}")`,
		assign:  `String {ident} = System.getenv("{ENV}");`,
		guard:   "if ({ident} == null || {ident}.isEmpty()) {\n    throw new IllegalStateException(\"{ENV} environment variable is not set\");\n}",
		naming:  camel,
	},
	Ruby: {
		display: "Ruby",
		read:    `ENV["{ENV}"]`,
		assign:  `{ident} = ENV["{ENV}"]`,
		guard:   `raise "{ENV} environment variable is not set" if {ident}.nil? || {ident}.empty?`,
	},
	PHP: {
		display: "PHP",
		read:    `getenv('{ENV}')`,
		assign:  `${ident} = getenv('{ENV}');`,
		guard:   "if (${ident} === false) {\n    throw new RuntimeException('{ENV} environment variable is not set');\n}",
	},
	CSharp: {
		display: "C#",
		imports: "using System;",
		read:    `Environment.GetEnvironmentVariable("{ENV}")`,
		assign:  `var {ident} = Environment.GetEnvironmentVariable("{ENV}");`,
		guard:   "if (string.IsNullOrEmpty({ident}))\n{\n    throw new InvalidOperationException(\"{ENV} environment variable is not set\");\n}",
		naming:  camel,
	},
	Rust: {
		display: "Rust",
		imports: "use std::env;",
		read:    `env::var("{ENV}")`,
		assign:  `let {ident} = env::var("{ENV}").expect("{ENV} environment variable is not set");`,
	},
	Shell: {
		display: "Shell",
		read:    `"${{ENV}}"`,
		assign:  `{ident}="${{ENV}:?{ENV} environment variable is not set}"`,
	},
}

var extensions = map[string]Language{
	".py":   Python,
	".pyw":  Python,
	".js":   JavaScript,
	".jsx":  JavaScript,
	".mjs":  JavaScript,
	".cjs":  JavaScript,
	".ts":   TypeScript,
	".tsx":  TypeScript,
	".go":   Go,
	".java": Java,
	".rb":   Ruby,
	".php":  PHP,
	".cs":   CSharp,
	".rs":   Rust,
	".sh":   Shell,
	".bash": Shell,
	".zsh":  Shell,
}

// LanguageForPath maps a file extension to a language, defaulting to Python.
func LanguageForPath(path string) Language {
	if l, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return l
	}
	return DefaultLanguage
}

// Known reports whether l has a template.
func Known(l Language) bool {
	_, ok := templates[l]
	return ok
}

// ReadExpression is the language's expression for reading envVar.
func ReadExpression(l Language, envVar string) string {
	return fill(lookup(l).read, envVar, "")
}

func lookup(l Language) template {
	if t, ok := templates[l]; ok {
		return t
	}
	return templates[DefaultLanguage]
}

// lhs picks up the variable being assigned on the matched line, e.g.
// `const stripeKey = "..."` or `"password": "..."`.
var lhs = regexp.MustCompile(`^\s*(?:export\s+)?(?:const\s+|let\s+|var\s+|final\s+|private\s+|public\s+|static\s+|String\s+|\$)*["']?([A-Za-z_][A-Za-z0-9_]*)["']?\s*(?::=|[:=])`)

// Synthesize builds remediation for a secret matched by rule on line.
func Synthesize(rule rules.SecretRule, line string, lang Language) types.AutofixSuggestion {
	if !Known(lang) {
		lang = DefaultLanguage
	}
	t := lookup(lang)
	env := rule.EnvVar
	if env == "" {
		env = "SECRET_VALUE"
	}
	ident := identFor(line, env, t.naming)

	var code []string
	if t.imports != "" {
		code = append(code, t.imports, "")
	}
	code = append(code, fill(t.assign, env, ident))
	if t.guard != "" {
		code = append(code, fill(t.guard, env, ident))
	}

	desc := rule.Description
	if desc == "" {
		desc = rule.Name
	}
	read := fill(t.read, env, ident)
	return types.AutofixSuggestion{
		Issue:    "Hardcoded " + desc + " in source code",
		Risk:     "Anyone with access to this code or its history can use this " + desc + ". Treat it as compromised and rotate it after moving it out of the code.",
		Language: t.display,
		Steps: []string{
			"Remove the hardcoded " + desc + " from the source file",
			"Add " + env + "=<value> to your local " + envFile + " file",
			"Add " + envFile + " to .gitignore so it is never committed",
			"Read the value with " + read + " instead",
			"Add " + env + "= to " + envFile + ".example so others know the variable is required",
		},
		FixCode:    strings.Join(code, "\n"),
		EnvExample: env + "=your_" + strings.ToLower(env) + "_here",
	}
}

func fill(s, env, ident string) string {
	return strings.NewReplacer("{ENV}", env, "{ident}", ident).Replace(s)
}

func identFor(line, env string, n naming) string {
	if m := lhs.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	lower := strings.ToLower(env)
	if n == snake {
		return lower
	}
	parts := strings.Split(lower, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
