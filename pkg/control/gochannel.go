package control

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// gochannelNew builds one in-memory watermill pub/sub, used as the
// transport for both the command bus and the event bus of an in-process
// TreeClient/TreeServer pair. It uses the zero Config: Persistent is
// false, so a message published while a topic has no subscriber is
// dropped; NewInProcessPair subscribes both topics before it returns.
func gochannelNew(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{}, logger)
}
