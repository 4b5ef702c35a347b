package scrape

import (
	"context"

	"go.uber.org/zap"

	"github.com/Engineering-Geek/Scraper/internal/telemetry"
)

// Column layouts of the two produced tables.
var (
	linkColumns    = []string{"start_date", "end_date", "links"}
	articleColumns = []string{"url", "query", "title", "text", "authors", "publish_date", "summary"}
)

const dateLayout = "2006-01-02"

// Assembler merges per-item outcomes into tables and hands them to the
// blob store. Persistence is best effort: the table is always returned to
// the caller, and a store failure is logged, never propagated.
type Assembler struct {
	store  BlobStore
	logger *zap.Logger
}

// NewAssembler builds an Assembler over a blob store. The store may be nil
// when persistence is not wanted.
func NewAssembler(store BlobStore, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{store: store, logger: logger}
}

// LinkTable folds scheduler rows into the link-harvest table. Rows keep
// window order; empty windows keep their empty-list rows.
func (a *Assembler) LinkTable(rows []DateWindowRow) Table {
	t := Table{Columns: linkColumns}
	for _, row := range rows {
		_ = t.Append([]Cell{
			StringCell(row.Start.Format(dateLayout)),
			StringCell(row.End.Format(dateLayout)),
			ListCell(row.Links),
		})
	}
	return t
}

// ArticleTable concatenates enriched articles in their given order and
// drops incomplete rows - items whose download or parse stage never
// succeeded contribute nothing.
func (a *Assembler) ArticleTable(articles []*Article) Table {
	t := Table{Columns: articleColumns}
	for _, art := range articles {
		if !art.Complete() {
			continue
		}
		publishDate := ""
		if !art.Fields.PublishDate.IsZero() {
			publishDate = art.Fields.PublishDate.Format(dateLayout)
		}
		_ = t.Append([]Cell{
			StringCell(art.Item.URL),
			StringCell(art.Item.Query.Text),
			StringCell(art.Fields.Title),
			StringCell(art.Fields.Text),
			ListCell(art.Fields.Authors),
			StringCell(publishDate),
			StringCell(art.Summary),
		})
	}
	return t
}

// Persist writes the table at key. The outcome is reported and logged but
// deliberately not surfaced as a pipeline failure.
func (a *Assembler) Persist(ctx context.Context, key string, t Table) bool {
	if a.store == nil || key == "" {
		return false
	}
	ok := PutTable(ctx, a.store, key, t)
	telemetry.IncPersist(ok)
	if !ok {
		a.logger.Error("table persistence failed", zap.String("key", key), zap.Int("rows", len(t.Rows)))
		return false
	}
	a.logger.Info("table persisted", zap.String("key", key), zap.Int("rows", len(t.Rows)))
	return true
}
