// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/csvctl/csvctl/internal/meta"
)

const bashCompletionScript = `# bash completion for csvctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_csvctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "dq sq di init completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
  local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t --tldr"

    case "$cmd" in
    dq)
      local opts="$common --key -k --exclude -x --profile -p --schema-check --fail-on-dupes --no-fail-on-dupes --include-unchanged --dupes --deep --out --pick"
            ;;
        sq)
      local opts="$common"
            ;;
        di)
      local opts="$common --key -k --exclude -x --profile -p"
            ;;
        init)
            local opts="--force"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--schema-check" ]]; then
        COMPREPLY=( $(compgen -W "fail warn ignore" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--pick" ]]; then
        COMPREPLY=( $(compgen -o dirnames -- "$cur") )
        return 0
    fi

  # If current token starts with '-', offer flags
  if [[ "$cur" == -* ]]; then
    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
  fi

  # Otherwise complete input files
  COMPREPLY=( $(compgen -f -- "$cur") )
  return 0
}

complete -F _csvctl csvctl
`

const zshCompletionScript = `#compdef csvctl

_csvctl() {
  local -a cmds
  cmds=(
    'dq:diff query'
    'sq:schema query'
    'di:interactive diff inspector'
    'init:write an example comparison profile'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'csvctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    dq)
      _arguments -C \
        $common \
        '(-k --key)'{-k,--key}'[key columns]:columns' \
        '(-x --exclude)'{-x,--exclude}'[columns to exclude]:columns' \
        '(-p --profile)'{-p,--profile}'[comparison profile]:file:_files' \
        '--schema-check[schema mismatch behavior]:behavior:(fail warn ignore)' \
        '--fail-on-dupes[fail on duplicate row keys]' \
        '--no-fail-on-dupes[collect duplicate row keys instead of failing]' \
        '--include-unchanged[record unchanged values on changed rows]' \
        '--dupes[show duplicate rows instead of results]' \
        '--deep[render a full delta for changed rows]' \
        '--out[write results to a CSV file]:file:_files' \
        '--pick[pick the two inputs from a directory]:directory:_directories' \
        '*:file:_files'
      ;;
    sq)
      _arguments -C \
        $common \
        '*:file:_files'
      ;;
    di)
      _arguments -C \
        $common \
        '(-k --key)'{-k,--key}'[key columns]:columns' \
        '(-x --exclude)'{-x,--exclude}'[columns to exclude]:columns' \
        '(-p --profile)'{-p,--profile}'[comparison profile]:file:_files' \
        '*:file:_files'
      ;;
    init)
      _arguments '--force[overwrite an existing file]' '1:file:_files'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:file:_files'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _csvctl csvctl csvctl
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(os.Stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(os.Stdout, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(os.Stdout, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(os.Stdout, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: csvctl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "csvctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
