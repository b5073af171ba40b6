package blockheaderstore

import (
	"github.com/spreadcoin/spreadd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("HDRS")
