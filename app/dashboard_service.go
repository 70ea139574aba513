package app

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/gomarkdown/markdown"

	"linedash/adapters/chart"
	"linedash/domain/dataset"
	"linedash/domain/selection"
	"linedash/internal/errors"
	"linedash/internal/pipeline"
)

// Page texts.
const (
	PageTitle         = "Dashboard de Análise das Linhas Móveis"
	pageDescription   = "Explore os dados das linhas móveis. Utilize os filtros à esquerda para refinar sua análise."
	OperatorsCaption  = "Quantidade de linhas por operadoras:"
	StationsTitle     = "Unidades Rodovia com vendas em até 700.000L em Agosto/2025"
	stationSuggestion = "**Sugestão:** Remanejar números de unidades urbanas que estão sem uso para as unidades com " +
		"grandes vendas e estão sem número"
	AllDataTitle = "Todos os dados"
)

// FilterLabels are the sidebar captions of the filter columns.
var FilterLabels = map[string]string{
	dataset.ColOperator: "Operadora",
	dataset.ColRole:     "Função",
	dataset.ColGroup:    "Grupo",
	dataset.ColDataTier: "Dados Móveis",
	dataset.ColUsage:    "Linhas sem uso no mês de Agosto",
}

// UnusedColumns is the projection shown in the "sem uso" table.
var UnusedColumns = []string{dataset.ColOperator, dataset.ColRole, dataset.ColGroup, dataset.ColDataTier, dataset.ColUsage}

// SectionID names a dashboard section; chart URLs use it.
type SectionID string

const (
	SectionOperator      SectionID = "operadora"
	SectionDataTier      SectionID = "dados"
	SectionRole          SectionID = "funcao"
	SectionGroup         SectionID = "grupo"
	SectionUsage         SectionID = "agosto"
	SectionUnused        SectionID = "sem_uso"
	SectionStationStatus SectionID = "status"
)

// NoticeLevel is the severity of a section notice
type NoticeLevel string

const (
	NoticeWarning NoticeLevel = "warning"
	NoticeInfo    NoticeLevel = "info"
)

// Notice replaces a section's content when there is nothing to draw
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Section is one chart or table of the page
type Section struct {
	ID           SectionID              `json:"id"`
	Title        string                 `json:"title"`
	Kind         chart.Kind             `json:"kind,omitempty"` // empty for table sections
	Summary      pipeline.Summary       `json:"summary,omitempty"`
	Distribution *pipeline.Distribution `json:"distribution,omitempty"`
	Table        *dataset.Table         `json:"-"`
	Notice       *Notice                `json:"notice,omitempty"`
}

// Ready reports whether the section has content to draw
func (s Section) Ready() bool { return s.Notice == nil }

// IsChart reports whether the section renders as an image
func (s Section) IsChart() bool { return s.Kind != "" }

// StationSection is the static block about underused highway stations
type StationSection struct {
	Title      string         `json:"title"`
	Table      *dataset.Table `json:"-"`
	Status     Section        `json:"status"`
	Suggestion template.HTML  `json:"suggestion"`
}

// View is everything the page shows for one selection
type View struct {
	Title          string           `json:"title"`
	Description    template.HTML    `json:"description"`
	OperatorCounts pipeline.Summary `json:"operator_counts"`
	Stations       *StationSection  `json:"stations,omitempty"`
	Sections       []Section        `json:"sections"`
	TotalRows      int              `json:"total_rows"`
	FilteredRows   int              `json:"filtered_rows"`
	AllData        *dataset.Table   `json:"-"` // nil when the data grid replaces the full table
	GridEnabled    bool             `json:"grid_enabled"`
	Fingerprint    string           `json:"fingerprint"`
}

// Options switches the optional parts of the page
type Options struct {
	StationSectionEnabled bool
	DataGridEnabled       bool
	TopN                  int
	GridPageSize          int
}

// DashboardService computes page views over the loaded datasets
type DashboardService struct {
	data           *Datasets
	opts           Options
	catalog        pipeline.Catalog
	operatorCounts pipeline.Summary
	description    template.HTML
	suggestion     template.HTML
}

// NewDashboardService builds the filter catalog once from the full lines table.
func NewDashboardService(data *Datasets, opts Options) (*DashboardService, error) {
	if data == nil || data.Lines == nil || data.Stations == nil {
		return nil, errors.InternalError("dashboard requires both datasets")
	}
	if opts.TopN <= 0 {
		opts.TopN = 20
	}
	if opts.GridPageSize <= 0 {
		opts.GridPageSize = 25
	}

	catalog, err := pipeline.BuildCatalog(data.Lines, dataset.FilterColumns...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build filter catalog")
	}

	return &DashboardService{
		data:           data,
		opts:           opts,
		catalog:        catalog,
		operatorCounts: pipeline.GroupCounts(data.Lines, dataset.ColOperator),
		description:    renderMarkdown(pageDescription),
		suggestion:     renderMarkdown(stationSuggestion),
	}, nil
}

// Catalog returns the selectable options per filter column
func (s *DashboardService) Catalog() pipeline.Catalog { return s.catalog }

// Options returns the effective page options
func (s *DashboardService) Options() Options { return s.opts }

// Datasets returns the loaded tables
func (s *DashboardService) Datasets() *Datasets { return s.data }

// DefaultSelection selects every option: the page as first opened.
func (s *DashboardService) DefaultSelection() selection.Selection {
	return s.catalog.FullSelection()
}

// Normalize fills filter columns the selection leaves out with their full
// option list and drops values and columns the catalog does not know.
func (s *DashboardService) Normalize(sel selection.Selection) selection.Selection {
	full := s.catalog.FullSelection()
	out := sel.Restrict(full)
	for col, set := range full {
		if _, ok := out[col]; !ok {
			out[col] = set
		}
	}
	return out
}

// Filtered returns the lines matching sel
func (s *DashboardService) Filtered(sel selection.Selection) *dataset.Table {
	return pipeline.Filter(s.data.Lines, sel)
}

// Unused returns the filtered lines whose usage is "sem uso", projected to
// the detail-table columns.
func (s *DashboardService) Unused(sel selection.Selection) *dataset.Table {
	return pipeline.MatchStatus(s.Filtered(sel), dataset.ColUsage, pipeline.UnusedStatus).Project(UnusedColumns...)
}

// Build computes the whole page for sel.
func (s *DashboardService) Build(sel selection.Selection) *View {
	startTime := time.Now()
	filtered := s.Filtered(sel)

	view := &View{
		Title:          PageTitle,
		Description:    s.description,
		OperatorCounts: s.operatorCounts,
		TotalRows:      s.data.Lines.Len(),
		FilteredRows:   filtered.Len(),
		GridEnabled:    s.opts.DataGridEnabled,
		Fingerprint:    sel.Fingerprint().Short(),
	}
	if s.opts.StationSectionEnabled {
		view.Stations = s.stationSection()
	}
	for _, id := range []SectionID{SectionOperator, SectionDataTier, SectionRole, SectionGroup, SectionUsage, SectionUnused} {
		view.Sections = append(view.Sections, s.section(id, filtered))
	}
	if !s.opts.DataGridEnabled {
		view.AllData = s.data.Lines
	}

	log.Printf("[Dashboard] View %s built in %.2fms (%d of %d rows)", view.Fingerprint,
		float64(time.Since(startTime).Nanoseconds())/1e6, view.FilteredRows, view.TotalRows)
	return view
}

// Section computes a single section for sel. The station status section is
// independent of the selection.
func (s *DashboardService) Section(sel selection.Selection, id SectionID) (Section, error) {
	switch id {
	case SectionStationStatus:
		if !s.opts.StationSectionEnabled {
			return Section{}, errors.NotFound(fmt.Sprintf("section %s", id))
		}
		return s.statusSection(), nil
	case SectionOperator, SectionDataTier, SectionRole, SectionGroup, SectionUsage, SectionUnused:
		return s.section(id, s.Filtered(sel)), nil
	default:
		return Section{}, errors.NotFound(fmt.Sprintf("section %s", id))
	}
}

// Chart returns the drawable spec of a chart section. Table sections and
// sections showing a notice cannot be drawn.
func (s *DashboardService) Chart(sel selection.Selection, id SectionID) (chart.Spec, error) {
	sec, err := s.Section(sel, id)
	if err != nil {
		return chart.Spec{}, err
	}
	if !sec.IsChart() {
		return chart.Spec{}, errors.NotFound(fmt.Sprintf("chart %s", id))
	}
	if sec.Notice != nil {
		return chart.Spec{}, errors.InvalidInput(sec.Notice.Message)
	}
	return chart.Spec{Title: sec.Title, Kind: sec.Kind, Summary: sec.Summary}, nil
}

// Grid pages the full lines table
func (s *DashboardService) Grid(q GridQuery) (*GridPage, error) {
	if q.PageSize <= 0 {
		q.PageSize = s.opts.GridPageSize
	}
	return Grid(s.data.Lines, q)
}

type sectionDef struct {
	title  string
	column string
	kind   chart.Kind
	topN   bool
	empty  string
}

var sectionDefs = map[SectionID]sectionDef{
	SectionOperator: {"Linhas por Operadora", dataset.ColOperator, chart.KindPie, false, "Nenhum dado para exibir o gráfico de operadoras."},
	SectionDataTier: {"Linhas por Tipo de Dados", dataset.ColDataTier, chart.KindPie, false, "Nenhum dado para exibir o gráfico de dados móveis."},
	SectionRole:     {"Qtd de Linhas por Função", dataset.ColRole, chart.KindBar, true, "Nenhum dado para exibir o gráfico de funções."},
	SectionGroup:    {"Qtd de Linhas por Grupo", dataset.ColGroup, chart.KindBar, true, "Nenhum dado para exibir o gráfico de grupos."},
	SectionUsage:    {"Linhas sem uso no mês de Agosto", dataset.ColUsage, chart.KindPie, false, "Nenhum dado para exibir o gráfico de Linhas sem uso."},
	SectionUnused:   {"Linhas com status 'Sem uso'", dataset.ColUsage, "", false, "Nenhum dado para exibir a tabela de linhas sem uso."},
}

func (s *DashboardService) section(id SectionID, filtered *dataset.Table) Section {
	def := sectionDefs[id]
	sec := Section{ID: id, Title: def.title, Kind: def.kind}

	if filtered.IsEmpty() {
		sec.Notice = &Notice{Level: NoticeWarning, Message: def.empty}
		return sec
	}

	if id == SectionUnused {
		unused := pipeline.MatchStatus(filtered, dataset.ColUsage, pipeline.UnusedStatus).Project(UnusedColumns...)
		sec.Table = unused
		if unused.IsEmpty() {
			sec.Notice = &Notice{Level: NoticeInfo, Message: "Nenhuma linha com status 'Sem uso' encontrada."}
		}
		return sec
	}

	counts := pipeline.ValueCounts(filtered, def.column)
	if def.topN {
		counts = pipeline.TopN(counts, s.opts.TopN)
	}
	return withSummary(sec, counts, def.empty)
}

func (s *DashboardService) stationSection() *StationSection {
	return &StationSection{
		Title:      StationsTitle,
		Table:      s.data.Stations,
		Status:     s.statusSection(),
		Suggestion: s.suggestion,
	}
}

func (s *DashboardService) statusSection() Section {
	sec := Section{ID: SectionStationStatus, Title: "Postos Rodovia com vendas acima de 700.000L", Kind: chart.KindPie}
	if !s.data.Stations.HasColumn(dataset.ColStationStatus) {
		sec.Notice = &Notice{Level: NoticeWarning, Message: "A coluna 'STATUS' não foi encontrada na planilha de unidades rodovia."}
		return sec
	}
	return withSummary(sec, pipeline.ValueCounts(s.data.Stations, dataset.ColStationStatus),
		"Nenhum dado para exibir o gráfico de status dos postos.")
}

// withSummary attaches counts to a chart section, or a warning when a column
// holds only blanks.
func withSummary(sec Section, counts pipeline.Summary, empty string) Section {
	if len(counts) == 0 {
		sec.Notice = &Notice{Level: NoticeWarning, Message: empty}
		return sec
	}
	sec.Summary = counts
	if dist, err := pipeline.Describe(counts); err == nil {
		sec.Distribution = &dist
	} else {
		log.Printf("[Dashboard] Could not describe %s: %v", sec.ID, err)
	}
	return sec
}

func renderMarkdown(md string) template.HTML {
	html := markdown.ToHTML([]byte(md), nil, nil)
	return template.HTML(bytes.TrimSpace(html))
}
