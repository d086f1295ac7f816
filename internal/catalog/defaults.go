package catalog

import (
	"path/filepath"

	"github.com/temirov/repofleet/internal/links"
)

// DefaultDeclarations returns the compiled-in fleet for the environment.
func DefaultDeclarations(environment Environment) []Entry {
	home := environment.HomeDirectory
	configHome := environment.ConfigHomeDirectory
	dataHome := environment.DataHomeDirectory
	binDirectory := filepath.Join(home, "bin")

	return []Entry{
		NewEntry("nvim",
			WithRequiredDirectories(configHome),
			WithLinks(Link{Destination: filepath.Join(configHome, "nvim"), Mode: links.ModeNoTargetDirectory}),
		),
		NewEntry("vim",
			WithLinks(
				Link{Destination: filepath.Join(home, ".vim"), Mode: links.ModeRelative | links.ModeNoTargetDirectory},
				Link{Source: ".vimrc", Destination: home, Mode: links.ModeRelative},
				Link{Source: ".gvimrc", Destination: home, Mode: links.ModeRelative},
			),
		),
		NewEntry("zsh",
			WithRequiredDirectories(filepath.Join(configHome, "zsh"), filepath.Join(dataHome, "zsh")),
			WithLinks(
				Link{Source: ".zshenv", Destination: home, Mode: links.ModeRelative},
				Link{Source: ".zprofile", Destination: filepath.Join(configHome, "zsh")},
				Link{Source: ".zshrc", Destination: filepath.Join(configHome, "zsh")},
				Link{Source: "autoload", Destination: filepath.Join(configHome, "zsh")},
			),
		),
		NewEntry("bash",
			WithLinks(
				Link{Source: ".bash_profile", Destination: home, Mode: links.ModeRelative},
				Link{Source: ".bashrc", Destination: home, Mode: links.ModeRelative},
				Link{Source: ".bash_logout", Destination: home, Mode: links.ModeRelative},
			),
			WithoutLinkManagement(),
		),
		NewEntry("scripts",
			WithRequiredDirectories(binDirectory),
			WithLinks(
				Link{Source: "helpers.py", Destination: filepath.Join(home, ".pyrc"), Mode: links.ModeRelative},
				Link{Source: "backup.pl", Destination: filepath.Join(binDirectory, "b")},
				Link{Source: "ex.py", Destination: filepath.Join(binDirectory, "ex")},
				Link{Source: "calc.pl", Destination: filepath.Join(binDirectory, "=")},
				Link{Source: "cert.pl", Destination: filepath.Join(binDirectory, "cert")},
				Link{Source: "mkconfig/.venv/bin/mkconfig", Destination: binDirectory},
				Link{Source: "mini.pl", Destination: filepath.Join(binDirectory, "mini")},
				Link{Source: "pics.pl", Destination: filepath.Join(binDirectory, "pics")},
				Link{Source: "pc.pl", Destination: filepath.Join(binDirectory, "pc")},
				Link{Source: "rseverywhere.pl", Destination: filepath.Join(binDirectory, "rseverywhere")},
				Link{Source: "vpn.py", Destination: filepath.Join(binDirectory, "vpn")},
				Link{Source: "www.py", Destination: filepath.Join(binDirectory, "www")},
				Link{Source: "colors_term.bash", Destination: binDirectory},
				Link{Source: "colors_tmux.bash", Destination: binDirectory},
			),
		),
		NewEntry("config",
			WithRequiredDirectories(binDirectory, filepath.Join(configHome, "git"), filepath.Join(configHome, "bat")),
			WithLinks(
				Link{Source: "tmux/lay.pl", Destination: filepath.Join(binDirectory, "lay")},
				Link{Source: "tmux/Nodes.pm", Destination: filepath.Join(binDirectory, "nodes")},
				Link{Source: "dotfiles/.gitignore", Destination: filepath.Join(configHome, "git", "ignore")},
				Link{Source: "dotfiles/.irbrc", Destination: home, Mode: links.ModeRelative},
				Link{Source: "dotfiles/.Xresources", Destination: home, Mode: links.ModeRelative},
				Link{Source: "ctags/.ctags", Destination: home, Mode: links.ModeRelative},
				Link{Source: "tmux/.tmux.conf", Destination: home, Mode: links.ModeRelative},
				Link{Source: "XDG/bat_config", Destination: filepath.Join(configHome, "bat", "config")},
			),
		),
		NewEntry("help"),
		NewEntry("styles", WithHostGroup("gitlab")),
		NewEntry("vim-chess", Disabled()),
		NewEntry("vim-desertEX", Disabled()),
		NewEntry("vim-pairs", Disabled()),
	}
}
