package model

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("model", "model instances")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
