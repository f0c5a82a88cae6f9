package treesupport

import (
	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/tree"
)

// Encode snapshots t into a Document with every collection sorted by its
// id (nodes by NodeId, blackboards by BlackboardId, connections by
// PortConnectionId, each lexicographic on the 128-bit representation;
// entries by key), so that two structurally-equal trees produce
// byte-equal JSON modulo value codec determinism. A key whose type is not
// fixed yet (bound to a writer but never written) is left out; Decode
// recreates it when it reconnects the writer's port.
func Encode(t *tree.Tree, ts *TreeSupport) (Document, error) {
	doc := Document{Version: CurrentVersion}

	sortedNodes := t.SortedNodes()

	for _, id := range sortedNodes {
		node, _ := t.Node(id)
		nodeType, _ := t.NodeType(id)

		factory, ok := ts.NodeFactory(nodeType)
		if !ok {
			return Document{}, model.NewError(model.KindUnknownType, "Encode", "no factory registered for "+string(nodeType)).WithNode(id)
		}

		blob, err := factory.EncodeConfig(node)
		if err != nil {
			return Document{}, model.Wrap(model.KindEncodeError, "Encode", err).WithNode(id)
		}

		doc.Nodes = append(doc.Nodes, NodeDoc{ID: id, Type: nodeType, ConfigBlob: blob})

		children, _ := t.Children(id)
		for i, child := range children {
			doc.Children = append(doc.Children, ChildDoc{Parent: id, Index: i, Child: child})
		}
	}

	blackboardIDs := t.Blackboards()
	sortBlackboardIDs(blackboardIDs)

	for _, bid := range blackboardIDs {
		bb, _ := t.Blackboard(bid)

		bdoc := BlackboardDoc{ID: bid}

		keys := bb.Keys()
		sortStrings(keys)

		for _, key := range keys {
			valueType, ok := bb.TypeOf(key)
			if !ok {
				continue
			}

			entry := EntryDoc{Key: key, ValueType: valueType}

			if value, ok := bb.Read(key); ok {
				codec, ok := ts.ValueCodec(valueType)
				if !ok {
					return Document{}, model.NewError(model.KindUnknownType, "Encode", "no codec registered for "+string(valueType)).WithBlackboard(bid)
				}

				blob, err := codec.Encode(value)
				if err != nil {
					return Document{}, model.Wrap(model.KindEncodeError, "Encode", err).WithBlackboard(bid)
				}

				entry.InitialValue = blob
			}

			bdoc.Entries = append(bdoc.Entries, entry)
		}

		doc.Blackboards = append(doc.Blackboards, bdoc)
	}

	conns := t.Connections()
	sortConnections(conns)

	for _, c := range conns {
		cdoc := ConnectionDoc{ID: c.ID, Blackboard: c.Blackboard, Key: c.Key}
		for _, p := range c.Ports {
			cdoc.Ports = append(cdoc.Ports, PortRefDoc{Node: p.Node, Port: p.Port})
		}

		doc.Connections = append(doc.Connections, cdoc)
	}

	if root, ok := t.Root(); ok {
		doc.Root = &root
	}

	return doc, nil
}

// Decode rebuilds a Tree from doc. Nodes whose types aren't registered
// are skipped, along with the children and connections that reference
// them; a blackboard entry whose value type isn't registered is skipped
// along with every connection onto that blackboard, while the blackboard
// itself is kept. Every skipped id is reported in the returned
// *DecodeFailure so the caller can render a partial-load diagnostic
// instead of failing outright. A parent left with a child count outside
// its bounds after skipping still fails the decode with an error.
func Decode(doc Document, ts *TreeSupport) (*tree.Tree, *DecodeFailure, error) {
	t := tree.New()
	failure := newDecodeFailure()

	skippedNodes := make(map[model.NodeId]bool)

	for _, nd := range doc.Nodes {
		factory, ok := ts.NodeFactory(nd.Type)
		if !ok {
			failure.UnknownNodeTypes[nd.Type] = append(failure.UnknownNodeTypes[nd.Type], nd.ID)
			skippedNodes[nd.ID] = true

			continue
		}

		node, err := factory.Create(nd.ID)
		if err != nil {
			return nil, nil, model.Wrap(model.KindDecodeError, "Decode", err).WithNode(nd.ID)
		}

		if len(nd.ConfigBlob) > 0 {
			config, err := factory.DecodeConfig(nd.ConfigBlob)
			if err != nil {
				return nil, nil, model.Wrap(model.KindDecodeError, "Decode", err).WithNode(nd.ID)
			}

			if err := node.SetConfig(config); err != nil {
				return nil, nil, err
			}
		}

		if err := t.AddNode(nd.ID, nd.Type, node); err != nil {
			return nil, nil, err
		}
	}

	childrenByParent := make(map[model.NodeId][]model.NodeId)

	for _, cd := range doc.Children {
		if skippedNodes[cd.Parent] || skippedNodes[cd.Child] {
			continue
		}

		list := childrenByParent[cd.Parent]
		for len(list) <= cd.Index {
			list = append(list, model.NodeId{})
		}

		list[cd.Index] = cd.Child
		childrenByParent[cd.Parent] = list
	}

	for parent, children := range childrenByParent {
		kept := children[:0]
		for _, child := range children {
			if !child.IsZero() {
				kept = append(kept, child)
			}
		}

		if err := t.SetChildren(parent, kept); err != nil {
			return nil, nil, err
		}
	}

	skippedBlackboards := make(map[model.BlackboardId]bool)

	for _, bd := range doc.Blackboards {
		if err := t.AddBlackboard(bd.ID); err != nil {
			return nil, nil, err
		}

		bb, _ := t.Blackboard(bd.ID)

		for _, entry := range bd.Entries {
			codec, ok := ts.ValueCodec(entry.ValueType)
			if !ok {
				failure.UnknownValueTypes[entry.ValueType] = append(failure.UnknownValueTypes[entry.ValueType], bd.ID)
				skippedBlackboards[bd.ID] = true

				continue
			}

			if len(entry.InitialValue) == 0 {
				continue
			}

			value, err := codec.Decode(entry.InitialValue)
			if err != nil {
				return nil, nil, model.Wrap(model.KindDecodeError, "Decode", err).WithBlackboard(bd.ID)
			}

			if err := bb.Write(entry.Key, value); err != nil {
				return nil, nil, err
			}
		}
	}

	for _, cd := range doc.Connections {
		if skippedBlackboards[cd.Blackboard] {
			continue
		}

		skip := false

		ports := make([]model.PortRef, 0, len(cd.Ports))

		for _, p := range cd.Ports {
			if skippedNodes[p.Node] {
				skip = true
				break
			}

			ports = append(ports, model.PortRef{Node: p.Node, Port: p.Port})
		}

		if skip {
			continue
		}

		conn := model.PortConnection{ID: cd.ID, Blackboard: cd.Blackboard, Key: cd.Key, Ports: ports}
		if err := t.Connect(conn); err != nil {
			return nil, nil, err
		}
	}

	if doc.Root != nil && !skippedNodes[*doc.Root] {
		root := *doc.Root
		if err := t.SetRoot(&root); err != nil {
			return nil, nil, err
		}
	}

	return t, failure, nil
}
