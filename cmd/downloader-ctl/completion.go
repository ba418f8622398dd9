package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
)

func handleCompletion(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("completion", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: downloader-ctl completion [bash|zsh|fish]")
	}
	shell := fs.Arg(0)
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		return fmt.Errorf("unknown shell: %s", shell)
	}
	return nil
}

const bashCompletion = `# bash completion for downloader-ctl
_downloader_ctl_completions()
{
    local cur prev words cword
    _init_completion || return
    local cmds="tui list add ctl history doctor config batch completion version help"
    if [[ ${cword} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "${cmds}" -- "$cur") )
        return
    fi
    case ${words[1]} in
        tui)
            COMPREPLY=( $(compgen -W "--config --url --log-level --log-file --no-lock" -- "$cur") ) ;;
        list)
            COMPREPLY=( $(compgen -W "--config --url --json --filter --only-errors" -- "$cur") ) ;;
        add)
            COMPREPLY=( $(compgen -W "--config --url --batch --parallel" -- "$cur") ) ;;
        ctl)
            COMPREPLY=( $(compgen -W "--config --url --name --action" -- "$cur") ) ;;
        history)
            COMPREPLY=( $(compgen -W "--config --limit --json --filter" -- "$cur") ) ;;
        doctor)
            COMPREPLY=( $(compgen -W "--config --url --verbose" -- "$cur") ) ;;
        config)
            COMPREPLY=( $(compgen -W "validate print wizard --config --log-level --json --out" -- "$cur") ) ;;
        batch)
            COMPREPLY=( $(compgen -W "import --input --output" -- "$cur") ) ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh fish" -- "$cur") ) ;;
        *) ;;
    esac
}
complete -F _downloader_ctl_completions downloader-ctl
`

const zshCompletion = `#compdef downloader-ctl
# zsh completion for downloader-ctl (basic)
_downloader_ctl() {
  local -a cmds
  cmds=(tui list add ctl history doctor config batch completion version help)
  if (( CURRENT == 2 )); then
    _describe 'command' cmds
    return
  fi
  case $words[2] in
    tui)
      _arguments '*:options:(--config --url --log-level --log-file --no-lock)'
      ;;
    list)
      _arguments '*:options:(--config --url --json --filter --only-errors)'
      ;;
    add)
      _arguments '*:options:(--config --url --batch --parallel)'
      ;;
    ctl)
      _arguments '*:options:(--config --url --name --action)'
      ;;
    history)
      _arguments '*:options:(--config --limit --json --filter)'
      ;;
    doctor)
      _arguments '*:options:(--config --url --verbose)'
      ;;
    config)
      _arguments '*:options:(validate print wizard --config --log-level --json --out)'
      ;;
    batch)
      _arguments '*:options:(import --input --output)'
      ;;
    completion)
      _arguments '*:options:(bash zsh fish)'
      ;;
  esac
}
compdef _downloader_ctl downloader-ctl
`

const fishCompletion = `# fish completion for downloader-ctl
complete -c downloader-ctl -f -n "__fish_use_subcommand" -a "tui" -d "interactive dashboard"
complete -c downloader-ctl -f -n "__fish_use_subcommand" -a "list" -d "one-shot download listing"
complete -c downloader-ctl -f -n "__fish_use_subcommand" -a "add" -d "start a new download"
complete -c downloader-ctl -f -n "__fish_use_subcommand" -a "ctl" -d "stop/restart/pause a download"
complete -c downloader-ctl -f -n "__fish_use_subcommand" -a "history" -d "recent operator actions"
complete -c downloader-ctl -f -n "__fish_use_subcommand" -a "doctor" -d "environment diagnostics"
complete -c downloader-ctl -f -n "__fish_use_subcommand" -a "config" -d "config ops"
complete -c downloader-ctl -f -n "__fish_use_subcommand" -a "batch" -d "batch file tools"
complete -c downloader-ctl -f -n "__fish_use_subcommand" -a "version" -d "print version"
complete -c downloader-ctl -f -n "__fish_use_subcommand" -a "completion" -d "shell completions"

# Common flags
for cmd in tui list add ctl history doctor config
  complete -c downloader-ctl -n "__fish_seen_subcommand_from $cmd" -l config -d "Path to config"
end
for cmd in tui list add ctl doctor
  complete -c downloader-ctl -n "__fish_seen_subcommand_from $cmd" -l url -d "Service base URL (download URL for add)"
end
complete -c downloader-ctl -n "__fish_seen_subcommand_from tui" -l log-level -d "Log level"
complete -c downloader-ctl -n "__fish_seen_subcommand_from tui" -l log-file -d "Log file path"
complete -c downloader-ctl -n "__fish_seen_subcommand_from tui" -l no-lock -d "Skip single-instance lock"
complete -c downloader-ctl -n "__fish_seen_subcommand_from list" -l json -d "JSON output"
complete -c downloader-ctl -n "__fish_seen_subcommand_from list" -l filter -d "Fuzzy name filter"
complete -c downloader-ctl -n "__fish_seen_subcommand_from list" -l only-errors -d "Error/Offline rows only"
complete -c downloader-ctl -n "__fish_seen_subcommand_from add" -l batch -d "YAML batch file"
complete -c downloader-ctl -n "__fish_seen_subcommand_from add" -l parallel -d "Concurrent creates"
complete -c downloader-ctl -n "__fish_seen_subcommand_from ctl" -l name -d "Download name"
complete -c downloader-ctl -n "__fish_seen_subcommand_from ctl" -l action -d "stop|restart|pause"
complete -c downloader-ctl -n "__fish_seen_subcommand_from history" -l limit -d "Max entries"
complete -c downloader-ctl -n "__fish_seen_subcommand_from history" -l json -d "JSON output"
complete -c downloader-ctl -n "__fish_seen_subcommand_from history" -l filter -d "Fuzzy target filter"
complete -c downloader-ctl -n "__fish_seen_subcommand_from doctor" -l verbose -d "Detailed check output"
complete -c downloader-ctl -n "__fish_seen_subcommand_from config" -a "validate print wizard"
complete -c downloader-ctl -n "__fish_seen_subcommand_from batch" -a "import" -d "Import URLs to YAML batch"
complete -c downloader-ctl -n "__fish_seen_subcommand_from batch" -l input -d "Text file with URLs"
complete -c downloader-ctl -n "__fish_seen_subcommand_from batch" -l output -d "Output batch YAML"
`
