package processor

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/vijaykumarpeta/yt-comments-extractor/lib/spamcheck"
)

// maxLineSize caps a single input record, some comments carry huge pasted text
const maxLineSize = 1024 * 1024

// Classifier is the part of the spam detector the processor needs.
type Classifier interface {
	ClassifyBatch(ctx context.Context, comments []spamcheck.Comment, workers int) ([]spamcheck.Breakdown, error)
}

// Params configures a Processor.
type Params struct {
	Filter    *WordsFilter // keep only comments matching these words, nil or empty keeps all
	MinLikes  int          // drop comments with fewer likes than this
	KeepSpam  bool         // include flagged spam records in the main output stream
	Workers   int          // classification concurrency
	BatchSize int          // comments classified per batch
}

// Processor reads comment records as json lines, classifies them and writes
// result records back as json lines. Flagged spam is reported to a separate
// writer regardless of whether it stays in the main output.
type Processor struct {
	Params
	classifier Classifier
	spamLog    io.Writer
}

// New makes a processor classifying with classifier and writing flagged spam
// reports to spamLog.
func New(classifier Classifier, spamLog io.Writer, params Params) *Processor {
	if params.Workers <= 0 {
		params.Workers = 4
	}
	if params.BatchSize <= 0 {
		params.BatchSize = 500
	}
	if spamLog == nil {
		spamLog = io.Discard
	}
	return &Processor{Params: params, classifier: classifier, spamLog: spamLog}
}

// Result is one output record, the input comment with its classification.
type Result struct {
	Comment   spamcheck.Comment   `json:"comment"`
	Breakdown spamcheck.Breakdown `json:"breakdown"`
	Skipped   string              `json:"skipped,omitempty"` // set when classification was bypassed
}

// Stats summarizes a processing run.
type Stats struct {
	Read       int `json:"read"`
	Malformed  int `json:"malformed"`
	Filtered   int `json:"filtered"`
	Creator    int `json:"creator"`
	Classified int `json:"classified"`
	Kept       int `json:"kept"`
	Spam       int `json:"spam"`
}

func (s Stats) String() string {
	return fmt.Sprintf("read:%d, malformed:%d, filtered:%d, creator:%d, classified:%d, kept:%d, spam:%d",
		s.Read, s.Malformed, s.Filtered, s.Creator, s.Classified, s.Kept, s.Spam)
}

// Run consumes json lines with comments from r until EOF, classifies them in
// batches and writes result lines to w. Malformed input lines are skipped
// with a warning, anything else is fatal. Returns stats for the whole run.
func (p *Processor) Run(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats
	enc := json.NewEncoder(w)

	batch := make([]spamcheck.Comment, 0, p.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		breakdowns, err := p.classifier.ClassifyBatch(ctx, batch, p.Workers)
		if err != nil {
			return fmt.Errorf("classification failed: %w", err)
		}
		for i, b := range breakdowns {
			stats.Classified++
			if b.Verdict == spamcheck.VerdictSpam {
				stats.Spam++
				p.logSpam(batch[i], b)
				if !p.KeepSpam {
					continue
				}
			} else {
				stats.Kept++
			}
			if err := enc.Encode(Result{Comment: batch[i], Breakdown: b}); err != nil {
				return fmt.Errorf("can't write result: %w", err)
			}
		}
		batch = batch[:0]
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		stats.Read++

		var comment spamcheck.Comment
		if err := json.Unmarshal([]byte(line), &comment); err != nil {
			stats.Malformed++
			log.Printf("[WARN] can't parse comment at line %d: %v", lineNum, err)
			continue
		}

		if comment.LikeCount < p.MinLikes || !p.Filter.Matches(comment.Text) {
			stats.Filtered++
			continue
		}

		if comment.IsFromCreator {
			// the channel owner's own comments are never spam-checked. The
			// pending batch goes out first to keep output in input order.
			if err := flush(); err != nil {
				return stats, err
			}
			stats.Creator++
			res := Result{Comment: comment, Breakdown: spamcheck.Breakdown{Verdict: spamcheck.VerdictKeep}, Skipped: "creator"}
			if err := enc.Encode(res); err != nil {
				return stats, fmt.Errorf("can't write result: %w", err)
			}
			continue
		}

		batch = append(batch, comment)
		if len(batch) >= p.BatchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("can't read input: %w", err)
	}
	if err := flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

// logSpam writes a json report line about a flagged comment to the spam log.
func (p *Processor) logSpam(comment spamcheck.Comment, b spamcheck.Breakdown) {
	text := strings.TrimSpace(strings.ReplaceAll(comment.Text, "\n", " "))
	log.Printf("[INFO] spam detected from %q, %s", comment.Author, b.String())
	m := struct {
		TimeStamp string  `json:"ts"`
		Author    string  `json:"author"`
		Text      string  `json:"text"`
		Score     float64 `json:"score"`
		Reason    string  `json:"reason"`
	}{
		TimeStamp: time.Now().In(time.Local).Format(time.RFC3339),
		Author:    comment.Author,
		Text:      text,
		Score:     b.FinalScore,
		Reason:    b.Reason(),
	}
	line, err := json.Marshal(&m)
	if err != nil {
		log.Printf("[WARN] can't marshal json, %v", err)
		return
	}
	if _, err := p.spamLog.Write(append(line, '\n')); err != nil {
		log.Printf("[WARN] can't write to spam log, %v", err)
	}
}
