package testkit

import (
	"math/rand"

	"linedash/domain/dataset"
)

// LinesGeneratorConfig configures the random lines generator
type LinesGeneratorConfig struct {
	LineCount int     `json:"line_count"`
	NullRate  float64 `json:"null_rate"` // chance that any filter cell is left blank
	Seed      int64   `json:"seed"`
}

// DefaultLinesConfig returns defaults sized like a real carrier export
func DefaultLinesConfig() LinesGeneratorConfig {
	return LinesGeneratorConfig{
		LineCount: 500,
		NullRate:  0,
		Seed:      42,
	}
}

var (
	operators = []string{"VIVO", "CLARO", "TIM", "OI"}
	roles     = []string{"GERENTE", "FRENTISTA", "SUPERVISOR", "TROCADOR DE OLEO", "CAIXA", "MOTORISTA", "ADMINISTRATIVO"}
	groups    = []string{"URBANO", "RODOVIA", "ESCRITORIO", "LOGISTICA"}
	tiers     = []string{"2GB", "5GB", "10GB", "20GB", "ILIMITADO"}
	usages    = []string{"Em uso", "Sem uso", "SEM USO"}
)

// LinesGenerator produces reproducible random lines tables
type LinesGenerator struct {
	config LinesGeneratorConfig
	rng    *rand.Rand
}

// NewLinesGenerator creates a new generator
func NewLinesGenerator(config LinesGeneratorConfig) *LinesGenerator {
	return &LinesGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds a lines table of config.LineCount rows
func (g *LinesGenerator) Generate() *dataset.Table {
	rows := make([]LineRow, g.config.LineCount)
	for i := range rows {
		rows[i] = LineRow{
			Operator: g.pick(operators),
			Role:     g.pick(roles),
			Group:    g.pick(groups),
			DataTier: g.pick(tiers),
			Usage:    g.pick(usages),
		}
	}
	return LinesTable(rows...)
}

func (g *LinesGenerator) pick(options []string) string {
	if g.config.NullRate > 0 && g.rng.Float64() < g.config.NullRate {
		return ""
	}
	return options[g.rng.Intn(len(options))]
}
