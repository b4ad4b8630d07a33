package proto

import (
	"github.com/ashkov/clusterwire/tree"
)

// Structured-text wire format. Zero-field variants encode as bare string
// tokens, payload-carrying variants as one-key objects, Workload as bare
// value (single) or array (many), EmptySet as null. The mapping is
// isomorphic to the binary format: the same tag table, keyed by token
// instead of byte.

// Token and key names of the text format. Frozen; extending the protocol
// means extending both this table and the binary tag table.
const (
	keyAsync      = "async"
	keySync       = "sync"
	keyLookup     = "lookup"
	keyText       = "text"
	keyResult     = "result"
	keyPostAction = "post_action"
	keyCond       = "cond"
	keyAssign     = "assign"
	keyUserData   = "user_data"
	keyChoice     = "choice"
	keyClusterID  = "cluster_id"
	keySimilarity = "similarity"
	keyBest       = "best"
	keyNeighbours = "neighbours"
	keyError      = "error"
	keyUnexpected = "unexpected"

	tokInit            = "init"
	tokTerminate       = "terminate"
	tokAll             = "all"
	tokBest            = "best"
	tokBestOrMine      = "best_or_mine"
	tokNone            = "none"
	tokAlways          = "always"
	keyBestSimLessThan = "best_sim_less_than"
	tokServerChoice    = "server_choice"
	keyClientChoice    = "client_choice"
	tokInitAck         = "init_ack"
	tokTerminateAck    = "terminate_ack"
	tokTooBusy         = "too_busy"
	tokWantCrash       = "want_crash"
)

// EncodeTree maps the transaction to its text-tree form: an object with
// exactly one of the keys "async" / "sync".
func (t Trans[UD]) EncodeTree(c PayloadCodec[UD]) tree.Value {
	switch t.Kind {
	case TransAsync:
		return tree.Object(tree.Field(keyAsync, t.Req.EncodeTree(c)))
	case TransSync:
		return tree.Object(tree.Field(keySync, t.Req.EncodeTree(c)))
	default:
		panic(badKind("trans", uint8(t.Kind)))
	}
}

// DecodeTransTree maps a text-tree node back to a transaction.
func DecodeTransTree[UD any](node tree.Value, c PayloadCodec[UD]) (Trans[UD], error) {
	if node.Kind != tree.KindObject {
		return Trans[UD]{}, &UnexpectedTokenError{Node: node}
	}
	asyncNode, hasAsync := node.Get(keyAsync)
	syncNode, hasSync := node.Get(keySync)
	if hasAsync == hasSync {
		return Trans[UD]{}, &MalformedObjectError{Node: node}
	}
	if hasAsync {
		req, err := DecodeReqTree(asyncNode, c)
		if err != nil {
			return Trans[UD]{}, err
		}
		return Async(req), nil
	}
	req, err := DecodeReqTree(syncNode, c)
	if err != nil {
		return Trans[UD]{}, err
	}
	return Sync(req), nil
}

// EncodeTree maps the request to its text-tree form.
func (r Req[UD]) EncodeTree(c PayloadCodec[UD]) tree.Value {
	switch r.Kind {
	case ReqInit:
		return tree.String(tokInit)
	case ReqTerminate:
		return tree.String(tokTerminate)
	case ReqLookup:
		w := workloadTree(r.Lookup, func(t LookupTask[UD]) tree.Value {
			return t.encodeTree(c)
		})
		return tree.Object(tree.Field(keyLookup, w))
	default:
		panic(badKind("req", uint8(r.Kind)))
	}
}

// DecodeReqTree maps a text-tree node back to a request.
func DecodeReqTree[UD any](node tree.Value, c PayloadCodec[UD]) (Req[UD], error) {
	if token, ok := node.AsString(); ok {
		switch token {
		case tokInit:
			return Init[UD](), nil
		case tokTerminate:
			return Terminate[UD](), nil
		default:
			return Req[UD]{}, &UnexpectedTokenError{Node: node}
		}
	}
	if node.Kind == tree.KindObject {
		workloadNode, ok := node.Get(keyLookup)
		if !ok {
			return Req[UD]{}, &MalformedObjectError{Node: node}
		}
		w, err := parseWorkloadTree(workloadNode, func(n tree.Value) (LookupTask[UD], error) {
			return parseLookupTaskTree(n, c)
		})
		if err != nil {
			return Req[UD]{}, err
		}
		return Lookup(w), nil
	}
	return Req[UD]{}, &UnexpectedTokenError{Node: node}
}

// EncodeTree maps the reply to its text-tree form.
func (r Rep[UD]) EncodeTree(c PayloadCodec[UD]) tree.Value {
	switch r.Kind {
	case RepInitAck:
		return tree.String(tokInitAck)
	case RepTerminateAck:
		return tree.String(tokTerminateAck)
	case RepTooBusy:
		return tree.String(tokTooBusy)
	case RepWantCrash:
		return tree.String(tokWantCrash)
	case RepResult:
		w := workloadTree(r.Result, func(lr LookupResult[UD]) tree.Value {
			return lr.encodeTree(c)
		})
		return tree.Object(tree.Field(keyResult, w))
	case RepUnexpected:
		return tree.Object(tree.Field(keyUnexpected, r.Unexpected.EncodeTree(c)))
	default:
		panic(badKind("rep", uint8(r.Kind)))
	}
}

// DecodeRepTree maps a text-tree node back to a reply.
func DecodeRepTree[UD any](node tree.Value, c PayloadCodec[UD]) (Rep[UD], error) {
	if token, ok := node.AsString(); ok {
		switch token {
		case tokInitAck:
			return InitAck[UD](), nil
		case tokTerminateAck:
			return TerminateAck[UD](), nil
		case tokTooBusy:
			return TooBusy[UD](), nil
		case tokWantCrash:
			return WantCrash[UD](), nil
		default:
			return Rep[UD]{}, &UnexpectedTokenError{Node: node}
		}
	}
	if node.Kind != tree.KindObject {
		return Rep[UD]{}, &UnexpectedTokenError{Node: node}
	}
	resultNode, hasResult := node.Get(keyResult)
	unexpectedNode, hasUnexpected := node.Get(keyUnexpected)
	switch {
	case hasResult && !hasUnexpected:
		w, err := parseWorkloadTree(resultNode, func(n tree.Value) (LookupResult[UD], error) {
			return parseLookupResultTree(n, c)
		})
		if err != nil {
			return Rep[UD]{}, err
		}
		return Result(w), nil
	case hasUnexpected && !hasResult:
		req, err := DecodeReqTree(unexpectedNode, c)
		if err != nil {
			return Rep[UD]{}, err
		}
		return Unexpected(req), nil
	default:
		return Rep[UD]{}, &MalformedObjectError{Node: node}
	}
}

// Workload has no tag of its own in the text form: many is an array,
// single is the bare element. Elements must therefore never encode as a
// top-level array themselves.
func workloadTree[T any](w Workload[T], elem func(T) tree.Value) tree.Value {
	switch w.Kind {
	case WorkloadSingle:
		return elem(w.One)
	case WorkloadMany:
		items := make([]tree.Value, len(w.Items))
		for i, item := range w.Items {
			items[i] = elem(item)
		}
		return tree.Array(items...)
	default:
		panic(badKind("workload", uint8(w.Kind)))
	}
}

func parseWorkloadTree[T any](node tree.Value, elem func(tree.Value) (T, error)) (Workload[T], error) {
	if items, ok := node.AsArray(); ok {
		parsed := make([]T, 0, len(items))
		for _, item := range items {
			v, err := elem(item)
			if err != nil {
				return Workload[T]{}, err
			}
			parsed = append(parsed, v)
		}
		return Many(parsed), nil
	}
	v, err := elem(node)
	if err != nil {
		return Workload[T]{}, err
	}
	return Single(v), nil
}

func (t LookupTask[UD]) encodeTree(c PayloadCodec[UD]) tree.Value {
	return tree.Object(
		tree.Field(keyText, tree.String(t.Text)),
		tree.Field(keyResult, t.Result.encodeTree()),
		tree.Field(keyPostAction, t.PostAction.encodeTree(c)),
	)
}

func parseLookupTaskTree[UD any](node tree.Value, c PayloadCodec[UD]) (LookupTask[UD], error) {
	if node.Kind != tree.KindObject {
		return LookupTask[UD]{}, &UnexpectedTokenError{Node: node}
	}
	textNode, ok1 := node.Get(keyText)
	resultNode, ok2 := node.Get(keyResult)
	actionNode, ok3 := node.Get(keyPostAction)
	if !ok1 || !ok2 || !ok3 {
		return LookupTask[UD]{}, &MalformedObjectError{Node: node}
	}
	text, ok := textNode.AsString()
	if !ok {
		return LookupTask[UD]{}, &UnexpectedTokenError{Node: textNode}
	}
	result, err := parseLookupTypeTree(resultNode)
	if err != nil {
		return LookupTask[UD]{}, err
	}
	action, err := parsePostActionTree(actionNode, c)
	if err != nil {
		return LookupTask[UD]{}, err
	}
	return LookupTask[UD]{Text: text, Result: result, PostAction: action}, nil
}

func (lt LookupType) encodeTree() tree.Value {
	switch lt {
	case LookupAll:
		return tree.String(tokAll)
	case LookupBest:
		return tree.String(tokBest)
	case LookupBestOrMine:
		return tree.String(tokBestOrMine)
	default:
		panic(badKind("lookup type", uint8(lt)))
	}
}

func parseLookupTypeTree(node tree.Value) (LookupType, error) {
	token, ok := node.AsString()
	if !ok {
		return 0, &UnexpectedTokenError{Node: node}
	}
	switch token {
	case tokAll:
		return LookupAll, nil
	case tokBest:
		return LookupBest, nil
	case tokBestOrMine:
		return LookupBestOrMine, nil
	default:
		return 0, &UnexpectedTokenError{Node: node}
	}
}

func (a PostAction[UD]) encodeTree(c PayloadCodec[UD]) tree.Value {
	switch a.Kind {
	case PostNone:
		return tree.String(tokNone)
	case PostInsertNew:
		return tree.Object(
			tree.Field(keyCond, condTree(a.Cond.Kind, a.Cond.Threshold)),
			tree.Field(keyAssign, a.Assign.encodeTree()),
			tree.Field(keyUserData, c.EncodeTree(a.UserData)),
		)
	default:
		panic(badKind("post action", uint8(a.Kind)))
	}
}

func parsePostActionTree[UD any](node tree.Value, c PayloadCodec[UD]) (PostAction[UD], error) {
	if token, ok := node.AsString(); ok {
		if token == tokNone {
			return NoAction[UD](), nil
		}
		return PostAction[UD]{}, &UnexpectedTokenError{Node: node}
	}
	if node.Kind != tree.KindObject {
		return PostAction[UD]{}, &UnexpectedTokenError{Node: node}
	}
	condNode, ok1 := node.Get(keyCond)
	assignNode, ok2 := node.Get(keyAssign)
	userDataNode, ok3 := node.Get(keyUserData)
	if !ok1 || !ok2 || !ok3 {
		return PostAction[UD]{}, &MalformedObjectError{Node: node}
	}
	condKind, threshold, err := parseCondTree(condNode)
	if err != nil {
		return PostAction[UD]{}, err
	}
	assign, err := parseClusterAssignTree(assignNode)
	if err != nil {
		return PostAction[UD]{}, err
	}
	userData, err := c.DecodeTree(userDataNode)
	if err != nil {
		return PostAction[UD]{}, err
	}
	cond := InsertCond{Kind: condKind, Threshold: threshold}
	return InsertNew(cond, assign, userData), nil
}

// InsertCond and AssignCond share one text shape: the token "always", or
// an object {"best_sim_less_than": <threshold>}.
func condTree(kind CondKind, threshold float64) tree.Value {
	switch kind {
	case CondAlways:
		return tree.String(tokAlways)
	case CondBestSimLessThan:
		return tree.Object(tree.Field(keyBestSimLessThan, tree.Float(threshold)))
	default:
		panic(badKind("cond", uint8(kind)))
	}
}

func parseCondTree(node tree.Value) (CondKind, float64, error) {
	if token, ok := node.AsString(); ok {
		if token == tokAlways {
			return CondAlways, 0, nil
		}
		return 0, 0, &UnexpectedTokenError{Node: node}
	}
	if node.Kind == tree.KindObject {
		thresholdNode, ok := node.Get(keyBestSimLessThan)
		if !ok {
			return 0, 0, &MalformedObjectError{Node: node}
		}
		threshold, ok := thresholdNode.AsNumber()
		if !ok {
			return 0, 0, &MalformedObjectError{Node: node}
		}
		return CondBestSimLessThan, threshold, nil
	}
	return 0, 0, &UnexpectedTokenError{Node: node}
}

func (a ClusterAssign) encodeTree() tree.Value {
	return tree.Object(
		tree.Field(keyCond, condTree(a.Cond.Kind, a.Cond.Threshold)),
		tree.Field(keyChoice, a.Choice.encodeTree()),
	)
}

func parseClusterAssignTree(node tree.Value) (ClusterAssign, error) {
	if node.Kind != tree.KindObject {
		return ClusterAssign{}, &UnexpectedTokenError{Node: node}
	}
	condNode, ok1 := node.Get(keyCond)
	choiceNode, ok2 := node.Get(keyChoice)
	if !ok1 || !ok2 {
		return ClusterAssign{}, &MalformedObjectError{Node: node}
	}
	condKind, threshold, err := parseCondTree(condNode)
	if err != nil {
		return ClusterAssign{}, err
	}
	choice, err := parseClusterChoiceTree(choiceNode)
	if err != nil {
		return ClusterAssign{}, err
	}
	cond := AssignCond{Kind: condKind, Threshold: threshold}
	return ClusterAssign{Cond: cond, Choice: choice}, nil
}

func (ch ClusterChoice) encodeTree() tree.Value {
	switch ch.Kind {
	case ChoiceServer:
		return tree.String(tokServerChoice)
	case ChoiceClient:
		return tree.Object(tree.Field(keyClientChoice, tree.Uint(ch.ClusterID)))
	default:
		panic(badKind("cluster choice", uint8(ch.Kind)))
	}
}

func parseClusterChoiceTree(node tree.Value) (ClusterChoice, error) {
	if token, ok := node.AsString(); ok {
		if token == tokServerChoice {
			return ServerChoice(), nil
		}
		return ClusterChoice{}, &UnexpectedTokenError{Node: node}
	}
	if node.Kind == tree.KindObject {
		idNode, ok := node.Get(keyClientChoice)
		if !ok {
			return ClusterChoice{}, &UnexpectedTokenError{Node: node}
		}
		id, ok := idNode.AsUint64()
		if !ok {
			return ClusterChoice{}, &UnexpectedTokenError{Node: node}
		}
		return ClientChoice(id), nil
	}
	return ClusterChoice{}, &UnexpectedTokenError{Node: node}
}

func (r LookupResult[UD]) encodeTree(c PayloadCodec[UD]) tree.Value {
	switch r.Kind {
	case ResultEmptySet:
		return tree.Null()
	case ResultBest:
		return tree.Object(tree.Field(keyBest, r.Best.encodeTree(c)))
	case ResultNeighbours:
		w := workloadTree(r.Neighbours, func(m Match[UD]) tree.Value {
			return m.encodeTree(c)
		})
		return tree.Object(tree.Field(keyNeighbours, w))
	case ResultError:
		return tree.Object(tree.Field(keyError, tree.String(r.Err)))
	default:
		panic(badKind("lookup result", uint8(r.Kind)))
	}
}

func parseLookupResultTree[UD any](node tree.Value, c PayloadCodec[UD]) (LookupResult[UD], error) {
	if node.IsNull() {
		return EmptySet[UD](), nil
	}
	if node.Kind != tree.KindObject {
		return LookupResult[UD]{}, &UnexpectedTokenError{Node: node}
	}
	bestNode, hasBest := node.Get(keyBest)
	neighboursNode, hasNeighbours := node.Get(keyNeighbours)
	errNode, hasErr := node.Get(keyError)
	switch {
	case hasBest && !hasNeighbours && !hasErr:
		m, err := parseMatchTree(bestNode, c)
		if err != nil {
			return LookupResult[UD]{}, err
		}
		return Best(m), nil
	case hasNeighbours && !hasBest && !hasErr:
		w, err := parseWorkloadTree(neighboursNode, func(n tree.Value) (Match[UD], error) {
			return parseMatchTree(n, c)
		})
		if err != nil {
			return LookupResult[UD]{}, err
		}
		return Neighbours(w), nil
	case hasErr && !hasBest && !hasNeighbours:
		message, ok := errNode.AsString()
		if !ok {
			return LookupResult[UD]{}, &UnexpectedTokenError{Node: errNode}
		}
		return LookupError[UD](message), nil
	default:
		return LookupResult[UD]{}, &MalformedObjectError{Node: node}
	}
}

func (m Match[UD]) encodeTree(c PayloadCodec[UD]) tree.Value {
	return tree.Object(
		tree.Field(keyClusterID, tree.Uint(m.ClusterID)),
		tree.Field(keySimilarity, tree.Float(m.Similarity)),
		tree.Field(keyUserData, c.EncodeTree(m.UserData)),
	)
}

func parseMatchTree[UD any](node tree.Value, c PayloadCodec[UD]) (Match[UD], error) {
	if node.Kind != tree.KindObject {
		return Match[UD]{}, &UnexpectedTokenError{Node: node}
	}
	idNode, ok1 := node.Get(keyClusterID)
	simNode, ok2 := node.Get(keySimilarity)
	userDataNode, ok3 := node.Get(keyUserData)
	if !ok1 || !ok2 || !ok3 {
		return Match[UD]{}, &MalformedObjectError{Node: node}
	}
	clusterID, ok := idNode.AsUint64()
	if !ok {
		return Match[UD]{}, &MalformedObjectError{Node: node}
	}
	similarity, ok := simNode.AsNumber()
	if !ok {
		return Match[UD]{}, &MalformedObjectError{Node: node}
	}
	userData, err := c.DecodeTree(userDataNode)
	if err != nil {
		return Match[UD]{}, err
	}
	return Match[UD]{ClusterID: clusterID, Similarity: similarity, UserData: userData}, nil
}

// ParseTrans decodes a transaction from JSON text: a parse step into the
// generic tree followed by the tree decode.
func ParseTrans[UD any](data []byte, c PayloadCodec[UD]) (Trans[UD], error) {
	node, err := tree.Parse(data)
	if err != nil {
		return Trans[UD]{}, err
	}
	return DecodeTransTree(node, c)
}

// ParseRep decodes a reply from JSON text.
func ParseRep[UD any](data []byte, c PayloadCodec[UD]) (Rep[UD], error) {
	node, err := tree.Parse(data)
	if err != nil {
		return Rep[UD]{}, err
	}
	return DecodeRepTree(node, c)
}
