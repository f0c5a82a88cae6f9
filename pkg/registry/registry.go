// Package registry wires the stock node factories and value codecs into
// a fresh treesupport.TreeSupport, the way dukex-operion's own registry
// package registered its action/trigger node factories.
package registry

import (
	"github.com/sirupsen/logrus"

	"github.com/dukex/betula/pkg/blackboard"
	"github.com/dukex/betula/pkg/nodes/composite"
	"github.com/dukex/betula/pkg/nodes/decorator"
	"github.com/dukex/betula/pkg/nodes/leaf/cron"
	"github.com/dukex/betula/pkg/nodes/leaf/httprequest"
	"github.com/dukex/betula/pkg/nodes/leaf/log"
	"github.com/dukex/betula/pkg/nodes/leaf/queuepoll"
	"github.com/dukex/betula/pkg/nodes/leaf/transform"
	"github.com/dukex/betula/pkg/treesupport"
)

// RegisterStockTypes registers every node type and value type this
// repository ships with onto support. Plugin-loaded types (see
// LoadPlugins) are registered on top of these, never in place of them.
func RegisterStockTypes(support *treesupport.TreeSupport, logger *logrus.Logger) {
	support.RegisterNodeFactory(composite.NewSequenceNodeFactory())
	support.RegisterNodeFactory(composite.NewSelectorNodeFactory())
	support.RegisterNodeFactory(composite.NewParallelNodeFactory())
	support.RegisterNodeFactory(composite.NewIfThenElseNodeFactory())

	support.RegisterNodeFactory(decorator.NewSucceedNodeFactory())
	support.RegisterNodeFactory(decorator.NewFailNodeFactory())
	support.RegisterNodeFactory(decorator.NewConstantRunningNodeFactory())
	support.RegisterNodeFactory(decorator.NewRetryNodeFactory())
	support.RegisterNodeFactory(decorator.NewStatusWriteNodeFactory())
	support.RegisterNodeFactory(decorator.NewStatusReadNodeFactory())

	support.RegisterNodeFactory(log.NewLogNodeFactory(logger))
	support.RegisterNodeFactory(httprequest.NewHTTPRequestNodeFactory())
	support.RegisterNodeFactory(transform.NewTransformNodeFactory())
	support.RegisterNodeFactory(cron.NewCronGateNodeFactory())
	support.RegisterNodeFactory(queuepoll.NewQueuePollNodeFactory())

	support.RegisterValueCodec(blackboard.StringCodec{})
	support.RegisterValueCodec(blackboard.FloatCodec{})
	support.RegisterValueCodec(blackboard.BoolCodec{})
	support.RegisterValueCodec(blackboard.MapCodec{})
	support.RegisterValueCodec(blackboard.ListCodec{})
	support.RegisterValueCodec(decorator.StatusValueCodec{})
}
