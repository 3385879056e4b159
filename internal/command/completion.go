// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsjob/internal/meta"
)

const bashCompletionScript = `# bash completion for awsjob
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_awsjob()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "get launch parallel put script completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local aws="--profile --region --access-key-id --secret-access-key --session-token"
    local out="--attrs -a --color -c --output -o --padding --schema --sort -s --titles -t"
    local script="--cmd --repo --conda-path --env --home --user --branch --package --swap-mb"

    case "$cmd" in
        get)
            local opts="$aws $out --host --sigv4 --dry-run -n"
            ;;
        put)
            local opts="$aws $out --host --sigv4 --content-type --md5 --reduced-redundancy --progress"
            ;;
        launch)
            local opts="$aws $out $script --spec --image --key-name --instance-type --shutdown --subnet --iam-profile --user-data-file --security-group --tag --ephemeral --ebs-optimized --dry-run -n"
            ;;
        parallel)
            local opts="--program --list-param"
            ;;
        script)
            local opts="$script"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts=""
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --shutdown)
            COMPREPLY=( $(compgen -W "terminate stop" -- "$cur") )
            return 0
            ;;
        --spec|--user-data-file)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # get DEST and put FILE are local paths.
    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _awsjob awsjob
`

const zshCompletionScript = `#compdef awsjob

_awsjob() {
  local -a cmds
  cmds=(
    'get:download one object'
    'launch:launch one EC2 instance running the bootstrap script'
    'parallel:print a parallel-run command line'
    'put:upload one file'
    'script:print the instance bootstrap script'
    'completion:generate shell completion script'
  )

  local -a aws out script
  aws=(
  '--profile[shared config profile]:profile'
  '--region[AWS region]:region'
  '--access-key-id[static access key id]:id'
  '--secret-access-key[static secret access key]:secret'
  '--session-token[static session token]:token'
  )
  out=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '--padding[spaces between columns]:n'
  '--schema[dump schema]'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )
  script=(
  '--cmd[command run last]:cmd'
  '--repo[repository directory]:repo'
  '--conda-path[conda install path]:path'
  '--env[conda environment]:env'
  '--home[home directory]:dir:_directories'
  '--user[instance user]:user'
  '--branch[branch to pull]:branch'
  '*--package[extra pip package]:pkg'
  '--swap-mb[swap size in MB]:mb'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'awsjob commands' cmds
    return
  fi

  case $words[2] in
    get)
      _arguments -C $aws $out \
        '--host[S3 endpoint host]:host' \
        '--sigv4[force SigV4 payload signing]' \
        '(-n --dry-run)'{-n,--dry-run}'[check only]' \
        '1:bucket' '2:key' '3:dest:_files'
      ;;
    put)
      _arguments -C $aws $out \
        '--host[S3 endpoint host]:host' \
        '--sigv4[force SigV4 payload signing]' \
        '--content-type[content type]:type' \
        '--md5[send Content-MD5]' \
        '--reduced-redundancy[reduced redundancy storage]' \
        '--progress[show progress bar]' \
        '1:file:_files' '2:bucket' '3:key'
      ;;
    launch)
      _arguments -C $aws $out $script \
        '--spec[HCL job file]:file:_files' \
        '--image[AMI id]:ami' \
        '--key-name[key pair]:key' \
        '--instance-type[instance type]:type' \
        '--shutdown[shutdown behavior]:behavior:(terminate stop)' \
        '--subnet[subnet id]:subnet' \
        '--iam-profile[instance profile]:profile' \
        '--user-data-file[user data file]:file:_files' \
        '*--security-group[security group id]:sg' \
        '*--tag[NAME=VALUE tag]:tag' \
        '*--ephemeral[DEVICE=VIRTUAL mapping]:mapping' \
        '--ebs-optimized[EBS optimized]' \
        '(-n --dry-run)'{-n,--dry-run}'[check only]'
      ;;
    parallel)
      _arguments -C \
        '--program[program to run]:program' \
        '--list-param[joined parameter]:name' \
        '*:NAME=VALUE'
      ;;
    script)
      _arguments -C $script
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
compdef _awsjob awsjob
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	if shell == "" {
		switch sh := os.Getenv("SHELL"); {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(stdout(cmd), bashCompletionScript)
	case "zsh":
		fmt.Fprint(stdout(cmd), zshCompletionScript)
	default:
		fmt.Fprintln(stderr(cmd), "usage: awsjob completion [bash|zsh]")
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "awsjob completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
