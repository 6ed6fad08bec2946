// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kili-technology/kili-cli/internal/meta"
)

const bashCompletionScript = `# bash completion for kili
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_kili()
{
    local cur prev group sub
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "project release completion --help --version" -- "$cur") )
        return 0
    fi

    group=${COMP_WORDS[1]}
    sub=${COMP_WORDS[2]}
    local common="--attrs -a --color -c --filter -f --local -l --output -o --padding --sort -s --titles -t --tldr --schema"
    local remote="--endpoint --api-key -k"

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi
    if [[ "$prev" == "--role" || "$prev" == "-r" ]]; then
        COMPREPLY=( $(compgen -W "ADMIN TEAM_MANAGER REVIEWER LABELER" -- "$cur") )
        return 0
    fi
    if [[ "$prev" == "--part" ]]; then
        COMPREPLY=( $(compgen -W "major minor patch" -- "$cur") )
        return 0
    fi

    case "$group" in
    project)
        if [[ ${COMP_CWORD} -eq 2 ]]; then
            COMPREPLY=( $(compgen -W "create list describe import label member" -- "$cur") )
            return 0
        fi
        case "$sub" in
        create)
            local opts="$common $remote --title --description --input-type --interface -i"
            ;;
        list)
            local opts="$common $remote --max -m --query -q"
            ;;
        describe)
            local opts="$common $remote --project-id -p"
            ;;
        import)
            local opts="$common $remote --project-id -p --external-id-array --force --batch-size --aws-profile --aws-region --s3-endpoint --presign-ttl"
            ;;
        label)
            local opts="$common $remote --project-id -p --label-type --prediction --model-name"
            ;;
        member)
            if [[ ${COMP_CWORD} -eq 3 ]]; then
                COMPREPLY=( $(compgen -W "list add update remove" -- "$cur") )
                return 0
            fi
            local opts="$common $remote --project-id -p --role -r --from-project"
            ;;
        *)
            local opts="$common"
            ;;
        esac
        ;;
    release)
        if [[ ${COMP_CWORD} -eq 2 ]]; then
            COMPREPLY=( $(compgen -W "version ordinal bump previous-tag notes tag" -- "$cur") )
            return 0
        fi
        local opts="$common --manifest --prefix"
        case "$sub" in
        bump)
            opts="$opts --part --set --file --commit --tag --push --remote --dry-run"
            ;;
        notes)
            opts="$opts --to"
            ;;
        tag)
            opts="$opts --message -m --push --remote --dry-run"
            ;;
        esac
        # The optional RepoDir comes right after the subcommand.
        if [[ ${COMP_CWORD} -eq 3 && "$cur" != -* ]]; then
            COMPREPLY=( $(compgen -o dirnames -- "$cur") )
            return 0
        fi
        ;;
    completion)
        COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
        return 0
        ;;
    *)
        local opts="$common"
        ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _kili kili
`

const zshCompletionScript = `#compdef kili

_kili() {
  local -a groups
  groups=(
    'project:manage labeling projects'
    'release:version and release tag plumbing'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-l --local)'{-l,--local}'[show local timestamps]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '--padding[column padding]:padding'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--schema[dump schema]'
  '--tldr[show tldr page]'
  )

  local -a remote
  remote=(
  '--endpoint[GraphQL endpoint]:url'
  '(-k --api-key)'{-k,--api-key}'[API key]:key'
  '(-p --project-id)'{-p,--project-id}'[project]:project'
  )

  local -a release
  release=(
  '--manifest[packaging file]:file:_files'
  '--prefix[tag prefix]:prefix'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'kili commands' groups
    return
  fi

  case $words[2] in
    project)
      if (( CURRENT == 3 )); then
        _values 'project command' create list describe import label member
        return
      fi
      case $words[3] in
        create)
          _arguments -C $common $remote \
            '--title[project title]:title' \
            '--description[project description]:description' \
            '--input-type[asset type]:type:(IMAGE PDF TEXT VIDEO TIME_SERIES GEOSPATIAL)' \
            '(-i --interface)'{-i,--interface}'[interface file]:file:_files'
          ;;
        list)
          _arguments -C $common $remote \
            '(-m --max)'{-m,--max}'[maximum projects]:max' \
            '(-q --query)'{-q,--query}'[title search]:query'
          ;;
        import)
          _arguments -C $common $remote \
            '--external-id-array[external ids]:ids' \
            '--force[import existing external ids]' \
            '--batch-size[assets per request]:size' \
            '--aws-profile[profile used to presign s3 assets]:profile' \
            '--aws-region[region of the s3 asset buckets]:region' \
            '--s3-endpoint[S3-compatible endpoint]:url' \
            '--presign-ttl[validity of presigned URLs]:duration' \
            '*:asset:_files'
          ;;
        label)
          _arguments -C $common $remote \
            '--label-type[label type]:type:(DEFAULT PREDICTION REVIEW INFERENCE)' \
            '--prediction[import predictions]' \
            '--model-name[model name]:model' \
            '*:label:_files'
          ;;
        member)
          if (( CURRENT == 4 )); then
            _values 'member command' list add update remove
            return
          fi
          _arguments -C $common $remote \
            '(-r --role)'{-r,--role}'[member role]:role:(ADMIN TEAM_MANAGER REVIEWER LABELER)' \
            '--from-project[copy members from]:project'
          ;;
        *)
          _arguments -C $common $remote
          ;;
      esac
      ;;
    release)
      if (( CURRENT == 3 )); then
        _values 'release command' version ordinal bump previous-tag notes tag
        return
      fi
      case $words[3] in
        bump)
          _arguments -C $common $release \
            '--part[version part]:part:(major minor patch)' \
            '--set[explicit version]:version' \
            '*--file[mirror file]:file:_files' \
            '--commit[commit bumped files]' \
            '--tag[create release tag]' \
            '--push[push release tag]' \
            '--remote[push remote]:remote' \
            '--dry-run[show plan only]' \
            '::RepoDir:_directories'
          ;;
        tag)
          _arguments -C $common $release \
            '(-m --message)'{-m,--message}'[tag annotation]:message' \
            '--push[push release tag]' \
            '--remote[push remote]:remote' \
            '--dry-run[show plan only]' \
            '::RepoDir:_directories'
          ;;
        notes)
          _arguments -C $common $release \
            '--to[last commit]:ref' \
            '::RepoDir:_directories'
          ;;
        *)
          _arguments -C $common $release '::RepoDir:_directories'
          ;;
      esac
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _kili kili
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	w := writer(cmd)
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	case "":
		// Try to detect from SHELL or print usage.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(w, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(w, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: kili completion [bash|zsh]")
		}
	default:
		return fmt.Errorf("unsupported shell %q, want bash or zsh", shell)
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "kili completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
