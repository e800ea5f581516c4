package sim

func hitStopLoss(p *Position, price float64) bool {
	if p.StopLoss == nil {
		return false
	}
	if p.Direction == Long {
		return price <= *p.StopLoss
	}
	return price >= *p.StopLoss
}

func hitTakeProfit(p *Position, price float64) bool {
	if p.TakeProfit == nil {
		return false
	}
	if p.Direction == Long {
		return price >= *p.TakeProfit
	}
	return price <= *p.TakeProfit
}

// ratchetTrailingStop moves the stop toward price by the trailing
// distance. The stop only tightens: higher for long, lower for short.
// Reports whether the stop moved.
func ratchetTrailingStop(p *Position, price float64) bool {
	if p.TrailingStopDistance == nil {
		return false
	}

	var candidate float64
	if p.Direction == Long {
		candidate = price - *p.TrailingStopDistance
	} else {
		candidate = price + *p.TrailingStopDistance
	}

	if p.StopLoss != nil {
		if p.Direction == Long && candidate <= *p.StopLoss {
			return false
		}
		if p.Direction == Short && candidate >= *p.StopLoss {
			return false
		}
	}

	p.StopLoss = &candidate
	return true
}
