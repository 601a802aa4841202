package main

import (
	"github.com/mandelsoft/logging"
	"github.com/mandelsoft/logging/logrusl"
	"github.com/mandelsoft/logging/logrusr"
)

var REALM = logging.DefineRealm("librarydemo", "library demo")

var log logging.Logger

func init() {
	logcfg := logrusl.Human(true)
	lctx := logging.DefaultContext()
	lctx.SetBaseLogger(logrusr.New(logcfg.NewLogrus()))
	log = lctx.Logger(REALM)
}

func configureLogging(level string) error {
	l, err := logging.ParseLevel(level)
	if err != nil {
		return err
	}
	lctx := logging.DefaultContext()
	for _, r := range []string{"librarydemo", "metamodel", "model", "encoding", "ecore", "store"} {
		lctx.AddRule(logging.NewConditionRule(l, logging.NewRealmPrefix(r)))
	}
	return nil
}
