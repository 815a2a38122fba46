// Package document reads hedge strategies from YAML files.
package document

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/peter-kozarec/hedgefx/pkg/common"
)

var ErrInvalidDocument = errors.New("invalid strategy document")

// Document is a named strategy with the market it is valued in. Levels are
// written as "1.08" or "95%".
type Document struct {
	Name          string             `yaml:"name"`
	ReferenceSpot float64            `yaml:"reference_spot"`
	Market        common.MarketModel `yaml:"market"`
	Legs          []LegDocument      `yaml:"legs"`
}

type LegDocument struct {
	Type          string   `yaml:"type"`
	Strike        string   `yaml:"strike,omitempty"`
	Barrier       string   `yaml:"barrier,omitempty"`
	SecondBarrier string   `yaml:"second_barrier,omitempty"`
	Rebate        *float64 `yaml:"rebate,omitempty"`
	Volatility    float64  `yaml:"volatility,omitempty"`
	Quantity      float64  `yaml:"quantity"`
	TimeToPayoff  *float64 `yaml:"time_to_payoff,omitempty"`
}

func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if len(doc.Legs) == 0 {
		return nil, fmt.Errorf("%w: no legs", ErrInvalidDocument)
	}
	if doc.ReferenceSpot == 0 {
		doc.ReferenceSpot = doc.Market.Spot
	}
	return &doc, nil
}

// Strategy converts the document legs, parsing every level.
func (d *Document) Strategy() (common.Strategy, error) {
	strategy := make(common.Strategy, 0, len(d.Legs))
	for i, ld := range d.Legs {
		leg, err := ld.Leg()
		if err != nil {
			return nil, fmt.Errorf("%w: leg %d: %w", ErrInvalidDocument, i, err)
		}
		strategy = append(strategy, leg)
	}
	return strategy, nil
}

func (ld LegDocument) Leg() (common.Leg, error) {
	typ, err := common.ParseInstrumentType(ld.Type)
	if err != nil {
		return common.Leg{}, err
	}

	leg := common.Leg{
		Type:         typ,
		Rebate:       ld.Rebate,
		Volatility:   ld.Volatility,
		Quantity:     ld.Quantity,
		TimeToPayoff: ld.TimeToPayoff,
	}

	if ld.Strike != "" {
		if leg.Strike, err = common.ParseLevel(ld.Strike); err != nil {
			return common.Leg{}, fmt.Errorf("strike: %w", err)
		}
	}
	if leg.Barrier, err = optionalLevel(ld.Barrier); err != nil {
		return common.Leg{}, fmt.Errorf("barrier: %w", err)
	}
	if leg.SecondBarrier, err = optionalLevel(ld.SecondBarrier); err != nil {
		return common.Leg{}, fmt.Errorf("second barrier: %w", err)
	}

	return leg, nil
}

func optionalLevel(s string) (*common.Level, error) {
	if s == "" {
		return nil, nil
	}
	l, err := common.ParseLevel(s)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// FromStrategy is the inverse of Strategy, used when writing documents back.
func FromStrategy(name string, market common.MarketModel, strategy common.Strategy) *Document {
	doc := &Document{Name: name, ReferenceSpot: market.Spot, Market: market}
	for _, leg := range strategy {
		ld := LegDocument{
			Type:         string(leg.Type),
			Rebate:       leg.Rebate,
			Volatility:   leg.Volatility,
			Quantity:     leg.Quantity,
			TimeToPayoff: leg.TimeToPayoff,
		}
		if leg.Type.RequiresStrike() {
			ld.Strike = leg.Strike.String()
		}
		if leg.Barrier != nil {
			ld.Barrier = leg.Barrier.String()
		}
		if leg.SecondBarrier != nil {
			ld.SecondBarrier = leg.SecondBarrier.String()
		}
		doc.Legs = append(doc.Legs, ld)
	}
	return doc
}

func (d *Document) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}
