package types

// CLIArgs represents the global command-line arguments.
type CLIArgs struct {
	ConfigFile string
	APIURL     string
	Env        string
	Timeout    int
	Dir        string
	Verbose    bool
	Yes        bool
}

// ReportArgs agrupa as opções de exportação de relatórios.
type ReportArgs struct {
	ReportName string
	ReportType []string
	Dir        string
}
