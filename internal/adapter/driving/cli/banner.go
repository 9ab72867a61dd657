package cli

import (
	"fmt"

	"github.com/diillson/agro-console/internal/shared/types"
	"github.com/diillson/agro-console/pkg/console"
	"github.com/diillson/agro-console/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(out types.ConsoleInterface) {
	banner := `
     _                        ____                      _
    / \   __ _ _ __ ___      / ___|___  _ __  ___  ___ | | ___
   / _ \ / _' | '__/ _ \    | |   / _ \| '_ \/ __|/ _ \| |/ _ \
  / ___ \ (_| | | | (_) |   | |__| (_) | | | \__ \ (_) | |  __/
 /_/   \_\__, |_|  \___/     \____\___/|_| |_|___/\___/|_|\___|
         |___/
        `
	out.Println(console.BrightGreen(banner))

	// Obtem a string formatada da versão através do pacote version
	out.Println(console.BrightYellow(fmt.Sprintf("Agro Console CLI (v%s)", version.FormatVersion())))
}
