package store

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("store", "resource store")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
