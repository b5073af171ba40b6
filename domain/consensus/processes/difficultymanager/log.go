package difficultymanager

import (
	"github.com/spreadcoin/spreadd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("DIFF")
