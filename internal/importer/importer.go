// Package importer reads bread formulas from plain-text sheets and PDFs.
//
// A sheet is line oriented:
//
//	# Seeded Country Loaf
//	yield 2 x 975
//	[levain Stiff levain]
//	flour 100
//	water 60
//	starter 20 @100
//	hours 10
//	[soaker Seed soaker]
//	grain Flax 40
//	water 80
//	[final]
//	flour:Bread flour 700g
//	water 620
//	salt 19
//	inclusion Toasted walnuts 80 lamination
//	enrichment fat Butter 50
//
// Lines before the first section header belong to the final mix. Blank lines
// and lines starting with "//" are ignored.
package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"crumb/internal/aggregate"
	"crumb/models"
)

var (
	// ErrEmptySource is returned when the input holds no formula lines.
	ErrEmptySource = errors.New("importer: source is empty")
	// ErrNoFlour is returned when the parsed formula carries no flour.
	ErrNoFlour = errors.New("importer: formula has no flour")

	errUnknownKey     = errors.New("unknown key")
	errUnknownSection = errors.New("unknown section")
	errMissingValue   = errors.New("missing value")
	errBadNumber      = errors.New("invalid number")
)

var nowFunc = time.Now

// LineError reports the line that could not be parsed.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("importer: line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ParseText parses a formula sheet held in memory.
func ParseText(text string) (models.Formula, error) {
	return Parse(strings.NewReader(text))
}

// Parse reads a formula sheet from r.
func Parse(r io.Reader) (models.Formula, error) {
	p := parser{formula: models.NewFormula("", nowFunc())}
	p.section = sectionFinal

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		p.lines++
		if err := p.parseLine(line); err != nil {
			return models.Formula{}, &LineError{Line: lineNo, Text: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return models.Formula{}, fmt.Errorf("importer: read source: %w", err)
	}

	return p.finish()
}

type section int

const (
	sectionFinal section = iota
	sectionPreferment
	sectionSoaker
)

type parser struct {
	formula    models.Formula
	section    section
	preferment *models.Preferment
	soaker     *models.Soaker
	yieldSet   bool
	lines      int
	notes      []string
}

func (p *parser) parseLine(line string) error {
	if strings.HasPrefix(line, "#") {
		if p.formula.Name == "" {
			p.formula.Name = strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
		return nil
	}
	if strings.HasPrefix(line, "[") {
		return p.parseHeader(line)
	}

	key, rest := splitKey(line)
	if strings.HasPrefix(key, "flour:") {
		// The flour type may contain spaces, so keep everything after the colon.
		key, rest = "flour", line[len("flour:"):]
	}
	switch key {
	case "yield":
		return p.parseYield(rest)
	case "note", "notes":
		p.notes = append(p.notes, rest)
		return nil
	case "display":
		return p.parseDisplay(rest)
	}

	switch p.section {
	case sectionPreferment:
		return p.prefermentLine(key, rest)
	case sectionSoaker:
		return p.soakerLine(key, rest)
	default:
		return p.finalLine(key, rest)
	}
}

func (p *parser) parseHeader(line string) error {
	inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
	head, name := splitKey(inner)

	p.commit()
	switch head {
	case "final", "final_mix", "dough":
		p.section = sectionFinal
		return nil
	case "soaker":
		p.section = sectionSoaker
		p.soaker = &models.Soaker{ID: uuid.New(), Name: name}
		return nil
	}

	kind, ok := models.ParsePrefermentKind(head)
	if !ok {
		// "[pâte fermentée]" splits the kind across two words.
		kind, ok = models.ParsePrefermentKind(inner)
		name = ""
	}
	if !ok {
		return fmt.Errorf("%w %q", errUnknownSection, head)
	}
	p.section = sectionPreferment
	p.preferment = &models.Preferment{ID: uuid.New(), Name: name, Kind: kind}
	return nil
}

// commit appends the open preferment or soaker to the formula.
func (p *parser) commit() {
	if p.preferment != nil {
		p.formula.Preferments = append(p.formula.Preferments, *p.preferment)
		p.preferment = nil
	}
	if p.soaker != nil {
		p.formula.Soakers = append(p.formula.Soakers, *p.soaker)
		p.soaker = nil
	}
}

func (p *parser) finalLine(key, rest string) error {
	m := &p.formula.FinalMix
	switch key {
	case "flour":
		flourType, weight, err := namedWeight(rest)
		if err != nil {
			return err
		}
		m.Flours = append(m.Flours, models.Flour{ID: uuid.New(), Type: flourType, Weight: weight})
	case "water":
		return setWeight(&m.Water, rest)
	case "salt":
		return setWeight(&m.Salt, rest)
	case "yeast":
		return setWeight(&m.Yeast, rest)
	case "temp", "temperature":
		return setNumber(&m.Temperature, rest)
	case "mix", "method":
		m.MixMethod = models.MixMethod(strings.ReplaceAll(strings.ToLower(rest), " ", "_"))
	case "inclusion":
		return p.parseInclusion(rest)
	case "enrichment":
		return p.parseEnrichment(rest)
	default:
		return fmt.Errorf("%w %q in final mix", errUnknownKey, key)
	}
	return nil
}

func (p *parser) parseInclusion(rest string) error {
	fields := strings.Fields(rest)
	stage := models.StageMix
	if n := len(fields); n >= 3 {
		if _, err := parseWeight(fields[n-1]); err != nil {
			stage = models.ParseAdditionStage(fields[n-1])
			fields = fields[:n-1]
		}
	}
	name, weight, err := namedWeight(strings.Join(fields, " "))
	if err != nil {
		return err
	}
	p.formula.FinalMix.Inclusions = append(p.formula.FinalMix.Inclusions, models.Inclusion{
		ID: uuid.New(), Name: name, Weight: weight, Stage: stage,
	})
	return nil
}

func (p *parser) parseEnrichment(rest string) error {
	kind, remainder := splitKey(rest)
	name, weight, err := namedWeight(remainder)
	if err != nil {
		return err
	}
	p.formula.FinalMix.Enrichments = append(p.formula.FinalMix.Enrichments, models.Enrichment{
		ID: uuid.New(), Name: name, Weight: weight, Kind: models.ParseEnrichmentKind(kind),
	})
	return nil
}

func (p *parser) prefermentLine(key, rest string) error {
	pf := p.preferment
	switch key {
	case "flour":
		_, weight, err := namedWeight(rest)
		if err != nil {
			return err
		}
		pf.Flour += weight
	case "water":
		return setWeight(&pf.Water, rest)
	case "yeast":
		return setWeight(&pf.Yeast, rest)
	case "starter":
		return p.parseStarter(rest)
	case "hours", "build":
		return setNumber(&pf.BuildHours, strings.TrimSuffix(rest, "h"))
	case "temp", "temperature":
		return setNumber(&pf.Temperature, rest)
	default:
		return fmt.Errorf("%w %q in preferment", errUnknownKey, key)
	}
	return nil
}

// parseStarter reads "WEIGHT [@HYDRATION]"; hydration defaults to 100%.
func (p *parser) parseStarter(rest string) error {
	weightText, hydrationText, found := strings.Cut(rest, "@")
	weight, err := parseWeight(weightText)
	if err != nil {
		return err
	}
	hydration := 100.0
	if found {
		if hydration, err = parseNumber(strings.TrimSuffix(strings.TrimSpace(hydrationText), "%")); err != nil {
			return err
		}
	}
	p.preferment.Starter = &models.Starter{Weight: weight, Hydration: hydration}
	return nil
}

func (p *parser) soakerLine(key, rest string) error {
	s := p.soaker
	switch key {
	case "grain", "seed":
		name, weight, err := namedWeight(rest)
		if err != nil {
			return err
		}
		s.Grains = append(s.Grains, models.Grain{ID: uuid.New(), Name: name, Weight: weight})
	case "water":
		return setWeight(&s.Water, rest)
	case "salt":
		return setWeight(&s.Salt, rest)
	case "hours", "soak":
		return setNumber(&s.SoakHours, strings.TrimSuffix(rest, "h"))
	case "temp", "temperature":
		return setNumber(&s.Temperature, rest)
	case "boiling":
		if rest == "" {
			s.BoilingWater = true
			return nil
		}
		v, err := strconv.ParseBool(rest)
		if err != nil {
			return fmt.Errorf("boiling: %w", err)
		}
		s.BoilingWater = v
	default:
		return fmt.Errorf("%w %q in soaker", errUnknownKey, key)
	}
	return nil
}

// parseYield reads "PIECES x WEIGHT", "PIECESxWEIGHT" or a bare piece count.
func (p *parser) parseYield(rest string) error {
	compact := strings.ReplaceAll(strings.ToLower(rest), " ", "")
	piecesText, weightText, found := strings.Cut(compact, "x")
	pieces, err := strconv.Atoi(piecesText)
	if err != nil || pieces <= 0 {
		return fmt.Errorf("%w: yield pieces %q", errBadNumber, piecesText)
	}
	p.formula.Yield.Pieces = pieces
	if found {
		weight, err := parseWeight(weightText)
		if err != nil {
			return err
		}
		p.formula.Yield.WeightPerPiece = weight
		p.yieldSet = true
	}
	return nil
}

func (p *parser) parseDisplay(rest string) error {
	mode, precision := splitKey(rest)
	p.formula.Display.Mode = models.DisplayMode(mode)
	if precision != "" {
		n, err := strconv.Atoi(precision)
		if err != nil {
			return fmt.Errorf("%w: display precision %q", errBadNumber, precision)
		}
		p.formula.Display.Precision = n
	}
	p.formula.Display = p.formula.Display.Normalized()
	return nil
}

func (p *parser) finish() (models.Formula, error) {
	p.commit()
	if p.lines == 0 {
		return models.Formula{}, ErrEmptySource
	}

	f := p.formula
	if strings.TrimSpace(f.Name) == "" {
		f.Name = "Imported formula"
	}
	f.Notes = strings.Join(p.notes, "\n")
	if !aggregate.Significant(aggregate.TotalFlour(f)) {
		return models.Formula{}, ErrNoFlour
	}
	if !p.yieldSet {
		pieces := f.Yield.Pieces
		if pieces <= 0 {
			pieces = 1
		}
		f.Yield = models.Yield{Pieces: pieces, WeightPerPiece: aggregate.TotalWeight(f) / float64(pieces)}
	}
	f.AssignMissingIDs()
	return f, nil
}

func splitKey(line string) (string, string) {
	key, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	return strings.ToLower(key), strings.TrimSpace(rest)
}

// namedWeight splits "NAME WEIGHT" where NAME may contain spaces.
func namedWeight(rest string) (string, float64, error) {
	fields := strings.Fields(rest)
	if n := len(fields); n > 1 && strings.EqualFold(fields[n-1], "g") {
		fields = fields[:n-1]
	}
	if len(fields) == 0 {
		return "", 0, errMissingValue
	}
	weight, err := parseWeight(fields[len(fields)-1])
	if err != nil {
		return "", 0, err
	}
	name := strings.Join(fields[:len(fields)-1], " ")
	return name, weight, nil
}

func setWeight(dst *float64, text string) error {
	v, err := parseWeight(text)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setNumber(dst *float64, text string) error {
	v, err := parseNumber(text)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// parseWeight accepts "800", "800g", "800 g" and "1,5".
func parseWeight(text string) (float64, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(text, "G"), "g"))
	return parseNumber(text)
}

func parseNumber(text string) (float64, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(strings.TrimSuffix(text, "°C"), "C")
	if text == "" {
		return 0, errMissingValue
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q", errBadNumber, text)
	}
	return v, nil
}
