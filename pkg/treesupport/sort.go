package treesupport

import (
	"sort"

	"github.com/dukex/betula/pkg/model"
)

func sortBlackboardIDs(ids []model.BlackboardId) {
	sort.Slice(ids, func(i, j int) bool { return model.CompareBlackboardId(ids[i], ids[j]) < 0 })
}

func sortStrings(s []string) {
	sort.Strings(s)
}

func sortConnections(conns []model.PortConnection) {
	sort.Slice(conns, func(i, j int) bool {
		return model.ComparePortConnectionId(conns[i].ID, conns[j].ID) < 0
	})
}
