package types

// Position holds the long and short quantities for one symbol.
// Quantities are in units of the asset, never negative.
type Position struct {
	Symbol string  `json:"symbol"`
	Long   float64 `json:"long"`
	Short  float64 `json:"short"`
}

// NetExposure returns the net directional quantity (long minus short).
func (p Position) NetExposure() float64 {
	return p.Long - p.Short
}

// Portfolio is a read-only snapshot of cash and open positions supplied by
// the caller. The risk engine never mutates it.
type Portfolio struct {
	Cash      float64             `json:"cash"`
	Positions map[string]Position `json:"positions"`
}

// Position returns the position for a symbol, or a zero position if none is
// held. Defaults are applied here once instead of scattered through the math.
func (p Portfolio) Position(symbol string) Position {
	if pos, ok := p.Positions[symbol]; ok {
		return pos
	}
	return Position{Symbol: symbol}
}

// ActiveSymbols returns the symbols with non-zero net exposure.
func (p Portfolio) ActiveSymbols() []string {
	active := make([]string, 0, len(p.Positions))
	for symbol, pos := range p.Positions {
		net := pos.NetExposure()
		if net > 0 || net < 0 {
			active = append(active, symbol)
		}
	}
	return active
}
