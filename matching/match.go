package matching

import "github.com/sirupsen/logrus"

// Match runs one complete deferred-acceptance match over graph using cfg,
// restoring graph to its pristine state first so repeated calls are
// idempotent, and returns the resulting assignment table.
func Match(graph *Graph, cfg MatchConfig) ([]AssignmentRow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	graph.Reset()
	pm := NewPolicyMaker(cfg)
	if err := pm.Run(graph); err != nil {
		return nil, err
	}
	return CollectResults(graph), nil
}

// RunLottery fills in lottery numbers across graph using cfg, without
// running the matching engine. Call this before Match whenever the input
// scenario does not already carry lottery_number_quota values.
func RunLottery(graph *Graph, cfg LotteryConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logrus.Infof("[lottery] mode=%s seed=%d", cfg.Mode, cfg.Seed)
	lm := NewLotteryMaker(cfg)
	return lm.Run(graph)
}
