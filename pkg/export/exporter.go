package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/courseforge/courseforge/pkg/rules"
	"github.com/courseforge/courseforge/pkg/study"
)

var log = logrus.WithField("component", "export")

// Outcome is the per-branch result of an export run. A write failure on
// one branch does not stop the remaining branches; callers see partial
// success as a mix of nil and non-nil Err values.
type Outcome struct {
	Index       int
	DisplayName string
	Filename    string
	Destination string
	Err         error
}

// Exporter reconstructs each branch of a split node as an independent game
// and hands it to a sink. The source tree is only read; every produced
// chapter is a fresh tree with no aliasing back into the source.
type Exporter struct {
	Engine rules.Engine
	Sink   ChapterSink

	// Now supplies the export timestamp for the UTCDate header. Defaults
	// to time.Now; tests pin it for reproducible output.
	Now func() time.Time
}

// NewExporter creates an exporter writing through sink.
func NewExporter(eng rules.Engine, sink ChapterSink) *Exporter {
	return &Exporter{Engine: eng, Sink: sink}
}

// Export writes one chapter per child of split, in original variation
// order: child 0 is the main-line chapter, the rest are sidelines. A nil
// split node or one without children yields no outcomes and no error
// ("nothing to export"). The returned slice has one entry per branch in
// order.
func (e *Exporter) Export(g *study.Game, split *study.Node) ([]Outcome, error) {
	if split == nil || split.NumChildren() == 0 {
		log.Debug("no branches at split point, nothing to export")
		return nil, nil
	}

	requestID := uuid.NewString()[:8]
	branches := split.Children()
	pathMoves := pathFromRoot(split)

	log.WithFields(logrus.Fields{
		"request_id": requestID,
		"branches":   len(branches),
		"split_ply":  len(pathMoves),
	}).Debug("starting chapter export")

	outcomes := make([]Outcome, 0, len(branches))
	for i, branch := range branches {
		name := displayName(branch, i)
		filename := Filename(i, name)

		chapter, err := e.buildChapter(g, pathMoves, branch, name)
		if err != nil {
			// The source tree replayed cleanly when it was built, so a
			// rebuild failure is a corrupted tree, not a branch problem.
			return nil, fmt.Errorf("rebuilding branch %d (%s): %w", i, name, err)
		}

		dest, err := e.Sink.WriteChapter(filename, chapter)
		if err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"request_id": requestID,
				"chapter":    filename,
			}).Error("chapter write failed")
		} else {
			log.WithFields(logrus.Fields{
				"request_id": requestID,
				"chapter":    filename,
				"dest":       dest,
			}).Debug("chapter written")
		}
		outcomes = append(outcomes, Outcome{
			Index:       i,
			DisplayName: name,
			Filename:    filename,
			Destination: dest,
			Err:         err,
		})
	}
	return outcomes, nil
}

// buildChapter constructs the standalone game for one branch: source
// headers with a derived ChapterName and fresh UTCDate, the linear prefix
// of moves from the root down to the split node, the branch move itself,
// and a deep clone of everything underneath it.
func (e *Exporter) buildChapter(g *study.Game, pathMoves []*study.Node, branch *study.Node, name string) (*study.Game, error) {
	chapter := study.NewGame()
	for key, value := range g.Headers() {
		chapter.SetHeader(key, value)
	}
	chapter.SetHeader("ChapterName", fmt.Sprintf("%s: %s", g.HeaderOr("ChapterName", "Untitled Chapter"), name))

	now := e.Now
	if now == nil {
		now = time.Now
	}
	chapter.SetHeader("UTCDate", now().Format("2006.01.02"))

	cur := study.NewCursor(chapter, e.Engine)
	for _, step := range pathMoves {
		if _, err := cur.Play(step.Move()); err != nil {
			return nil, err
		}
	}

	node, err := cur.Play(branch.Move())
	if err != nil {
		return nil, err
	}
	node.SetComment(branch.Comment())
	for _, nag := range branch.NAGs() {
		node.AddNAG(nag)
	}

	for _, child := range branch.Children() {
		node.Graft(study.CloneSubtree(child))
	}

	// Whole-game annotation lives on the root.
	chapter.Root().SetComment(g.Root().Comment())

	return chapter, nil
}

// pathFromRoot returns the nodes strictly between the root and n,
// inclusive of n, in play order. Siblings along this prefix are not part
// of any chapter.
func pathFromRoot(n *study.Node) []*study.Node {
	var path []*study.Node
	for cur := n; cur != nil && !cur.IsRoot(); cur = cur.Parent() {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// displayName derives the human-readable chapter name for a branch.
func displayName(branch *study.Node, index int) string {
	comment := strings.TrimSpace(branch.Comment())
	if index > 0 {
		if comment == "" {
			return fmt.Sprintf("Variation %d", index)
		}
		return comment
	}
	if comment == "" {
		return "Main Line"
	}
	if strings.Contains(comment, "Main Line") {
		return comment
	}
	return "Main Line - " + comment
}

// BranchNames returns the display name of each chapter the split node
// would produce, in export order. Used for dry runs and inspection.
func BranchNames(split *study.Node) []string {
	if split == nil {
		return nil
	}
	children := split.Children()
	names := make([]string, len(children))
	for i, branch := range children {
		names[i] = displayName(branch, i)
	}
	return names
}

// Filename derives the collision-safe file base name for a branch: the
// zero-padded branch index, an underscore, and the sanitized display name.
func Filename(index int, name string) string {
	return fmt.Sprintf("%02d_%s", index, sanitizeName(name))
}

var (
	unsafeChars    = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// sanitizeName strips everything that is not alphanumeric, whitespace, an
// underscore or a hyphen, then collapses whitespace runs to single
// underscores. The caller's numeric prefix keeps names collision-free even
// when two sanitized names coincide.
func sanitizeName(name string) string {
	s := unsafeChars.ReplaceAllString(name, "")
	s = strings.TrimSpace(s)
	return whitespaceRuns.ReplaceAllString(s, "_")
}
