package metamodel

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("metamodel", "metamodel type registry")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
