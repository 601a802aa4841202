package encoding

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("encoding", "model serialization")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
