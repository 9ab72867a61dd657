package types

// ConsoleInterface define a interface para saída no console.
type ConsoleInterface interface {
	Print(a ...interface{})
	Printf(format string, a ...interface{})
	Println(a ...interface{})

	LogInfo(format string, a ...interface{})
	LogWarning(format string, a ...interface{})
	LogError(format string, a ...interface{})
	LogSuccess(format string, a ...interface{})

	Status(message string) StatusHandle
	Confirm(question string) bool

	CreateTable() TableInterface
	DisplayBarChart(title string, bars []ChartPoint)
	DisplayShareChart(title string, slices []ChartPoint, ring bool)
}

// StatusHandle é uma interface para atualizar uma mensagem de status.
type StatusHandle interface {
	Update(message string)
	Stop()
}

// TableInterface define a interface para criar e manipular tabelas.
type TableInterface interface {
	AddColumn(name string, options ...interface{})
	AddRow(cells ...interface{})
	Render() string
}

// ChartPoint é um valor rotulado exibido em gráficos de barra ou de participação.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}
