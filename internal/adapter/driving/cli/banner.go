package cli

import (
	"fmt"

	"github.com/diillson/cur2-parquet-sync/pkg/console"
	"github.com/diillson/cur2-parquet-sync/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner() {
	banner := `
          ____ _   _ ____  ____    ____             _____ _____ 
         / ___| | | |  _ \|___ \  |  _ \ __ _ _ __ |  _  |_   _|
        | |   | | | | |_) | __) | | |_) / _' | '__|| | | | | |  
        | |___| |_| |  _ < / __/  |  __/ (_| | |   | |_| | | |  
         \____|\___/|_| \_\_____| |_|   \__,_|_|    \__\_\ |_|  
        `
	fmt.Println(console.BoldRed(banner))

	formattedVersion := version.FormatVersion()
	fmt.Println(console.BrightCyan(fmt.Sprintf("CUR2 Parquet Sync CLI (v%s)", formattedVersion)))
}
