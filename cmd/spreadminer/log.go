package main

import (
	"github.com/spreadcoin/spreadd/infrastructure/logger"
	"github.com/spreadcoin/spreadd/util/panics"
)

var (
	log   = logger.RegisterSubSystem("SPRD")
	spawn = panics.GoroutineWrapperFunc(log)
)
