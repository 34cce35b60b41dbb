package crawl

import (
	"context"

	"github.com/fwojciec/techdocs"
)

var _ Handler = (*Dispatcher)(nil)

// Dispatcher routes tasks to the component that executes their kind. The
// kind set is closed, so routing is a single switch.
type Dispatcher struct {
	Frontier  *Frontier
	Processor *Processor
}

// HandleTask implements Handler.
func (d *Dispatcher) HandleTask(ctx context.Context, task *techdocs.Task) (techdocs.TaskResult, error) {
	switch task.Kind {
	case techdocs.TaskCrawlURL:
		return d.Frontier.HandleCrawl(ctx, task)
	case techdocs.TaskCleanContent:
		return d.Processor.HandleClean(ctx, task)
	case techdocs.TaskGenerateSnippets:
		return d.Processor.HandleSnippets(ctx, task)
	default:
		return techdocs.TaskResult{}, techdocs.Errorf(techdocs.EINVALID, "unknown task kind %q", task.Kind)
	}
}
