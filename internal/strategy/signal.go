package strategy

import "github.com/TomMakinMPF/fifoinvestor/internal/model"

// Classify labels one (%K, %D) pair. Bullish requires %K strictly above %D;
// a tie is Bearish. The strictness matters for crossover detection.
func Classify(k, d float64) model.Signal {
	if k > d {
		return model.SignalBullish
	}
	return model.SignalBearish
}

// Crossover reports whether the signal flipped from Bearish to Bullish between
// the previous and current (%K, %D) pairs. This is the sole Buy trigger.
func Crossover(prevK, prevD, curK, curD float64) bool {
	return Classify(prevK, prevD) == model.SignalBearish &&
		Classify(curK, curD) == model.SignalBullish
}
