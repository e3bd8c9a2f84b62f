// Package testutil reúne dublês usados pelos testes dos pacotes internos.
package testutil

import (
	"fmt"
	"strings"
	"sync"

	"github.com/diillson/cur2-parquet-sync/internal/shared/types"
)

// Console grava as mensagens em memória em vez de escrever no terminal.
type Console struct {
	mu       sync.Mutex
	Debugs   []string
	Infos    []string
	Warnings []string
	Errors   []string
	Statuses []string
	Stops    int
	Output   strings.Builder
}

// NewConsole cria um Console vazio.
func NewConsole() *Console { return &Console{} }

func (c *Console) record(dst *[]string, format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*dst = append(*dst, fmt.Sprintf(format, a...))
}

func (c *Console) Print(a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(&c.Output, a...)
}

func (c *Console) Printf(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(&c.Output, format, a...)
}

func (c *Console) Println(a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(&c.Output, a...)
}

func (c *Console) LogDebug(format string, a ...interface{}) { c.record(&c.Debugs, format, a...) }
func (c *Console) LogInfo(format string, a ...interface{}) { c.record(&c.Infos, format, a...) }
func (c *Console) LogWarning(format string, a ...interface{}) { c.record(&c.Warnings, format, a...) }
func (c *Console) LogError(format string, a ...interface{}) { c.record(&c.Errors, format, a...) }
func (c *Console) LogSuccess(format string, a ...interface{}) { c.record(&c.Infos, format, a...) }

// Status grava a mensagem inicial e as atualizações em Statuses.
func (c *Console) Status(message string) types.StatusHandle {
	c.record(&c.Statuses, "%s", message)
	return &statusRecorder{console: c}
}

func (c *Console) ProgressWithTotal(int) types.ProgressHandle { return noopHandle{} }
func (c *Console) CreateTable() types.TableInterface { return &Table{} }

// Contains indica se alguma mensagem do nível informado contém o trecho.
func Contains(msgs []string, fragment string) bool {
	for _, m := range msgs {
		if strings.Contains(m, fragment) {
			return true
		}
	}
	return false
}

type noopHandle struct{}

func (noopHandle) Increment() {}
func (noopHandle) Stop() {}

type statusRecorder struct {
	console *Console
}

func (s *statusRecorder) Update(message string) {
	s.console.record(&s.console.Statuses, "%s", message)
}

func (s *statusRecorder) Stop() {
	s.console.mu.Lock()
	defer s.console.mu.Unlock()
	s.console.Stops++
}

// Table guarda colunas e linhas para asserções.
type Table struct {
	Columns []string
	Rows    [][]string
}

func (t *Table) AddColumn(name string, _ ...interface{}) { t.Columns = append(t.Columns, name) }

func (t *Table) AddRow(cells ...interface{}) {
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = fmt.Sprint(c)
	}
	t.Rows = append(t.Rows, row)
}

func (t *Table) Render() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Columns, " | "))
	for _, r := range t.Rows {
		b.WriteString("\n")
		b.WriteString(strings.Join(r, " | "))
	}
	return b.String()
}
