package parser

type NodeKind int

const (
	KindProblem NodeKind = iota
	KindAmbiguous

	// Declarations
	KindTranslationUnit
	KindSimpleDeclaration
	KindFunctionDefinition
	KindDeclSpecifier
	KindNamedTypeSpecifier
	KindElaboratedTypeSpecifier
	KindCompositeTypeSpecifier
	KindEnumerator
	KindDeclarator
	KindFunctionDeclarator
	KindArrayModifier
	KindPointer
	KindParameterDeclaration
	KindTypeID
	KindInitializer
	KindInitializerList
	KindName

	// Statements
	KindCompoundStatement
	KindExpressionStatement
	KindDeclarationStatement
	KindIfStatement
	KindWhileStatement
	KindDoStatement
	KindForStatement
	KindReturnStatement
	KindBreakStatement
	KindContinueStatement
	KindSwitchStatement
	KindCaseStatement
	KindDefaultStatement
	KindLabelStatement
	KindGotoStatement
	KindNullStatement

	// Expressions
	KindIDExpression
	KindLiteral
	KindUnary
	KindBinary
	KindConditional
	KindCast
	KindCall
	KindSubscript
	KindFieldReference
	KindTypeIDExpression
)

var nodeKindNames = map[NodeKind]string{
	KindProblem:                 "Problem",
	KindAmbiguous:               "Ambiguous",
	KindTranslationUnit:         "TranslationUnit",
	KindSimpleDeclaration:       "SimpleDeclaration",
	KindFunctionDefinition:      "FunctionDefinition",
	KindDeclSpecifier:           "DeclSpecifier",
	KindNamedTypeSpecifier:      "NamedTypeSpecifier",
	KindElaboratedTypeSpecifier: "ElaboratedTypeSpecifier",
	KindCompositeTypeSpecifier:  "CompositeTypeSpecifier",
	KindEnumerator:              "Enumerator",
	KindDeclarator:              "Declarator",
	KindFunctionDeclarator:      "FunctionDeclarator",
	KindArrayModifier:           "ArrayModifier",
	KindPointer:                 "Pointer",
	KindParameterDeclaration:    "ParameterDeclaration",
	KindTypeID:                  "TypeID",
	KindInitializer:             "Initializer",
	KindInitializerList:         "InitializerList",
	KindName:                    "Name",
	KindCompoundStatement:       "CompoundStatement",
	KindExpressionStatement:     "ExpressionStatement",
	KindDeclarationStatement:    "DeclarationStatement",
	KindIfStatement:             "IfStatement",
	KindWhileStatement:          "WhileStatement",
	KindDoStatement:             "DoStatement",
	KindForStatement:            "ForStatement",
	KindReturnStatement:         "ReturnStatement",
	KindBreakStatement:          "BreakStatement",
	KindContinueStatement:       "ContinueStatement",
	KindSwitchStatement:         "SwitchStatement",
	KindCaseStatement:           "CaseStatement",
	KindDefaultStatement:        "DefaultStatement",
	KindLabelStatement:          "LabelStatement",
	KindGotoStatement:           "GotoStatement",
	KindNullStatement:           "NullStatement",
	KindIDExpression:            "IDExpression",
	KindLiteral:                 "Literal",
	KindUnary:                   "Unary",
	KindBinary:                  "Binary",
	KindConditional:             "Conditional",
	KindCast:                    "Cast",
	KindCall:                    "Call",
	KindSubscript:               "Subscript",
	KindFieldReference:          "FieldReference",
	KindTypeIDExpression:        "TypeIDExpression",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsExpression reports whether nodes of this kind appear in expression
// position.
func (k NodeKind) IsExpression() bool {
	return k >= KindIDExpression && k <= KindTypeIDExpression
}

// IsStatement reports whether nodes of this kind appear in statement
// position.
func (k NodeKind) IsStatement() bool {
	return k >= KindCompoundStatement && k <= KindNullStatement
}

// Property is the structural role a node plays in its parent.
type Property int

const (
	PropNone Property = iota
	PropOperand1
	PropOperand2
	PropOperand
	PropCondition
	PropThen
	PropElse
	PropTypeID
	PropCallee
	PropArgument
	PropArray
	PropSubscript
	PropOwner
	PropMember
	PropDeclSpec
	PropDeclarator
	PropNestedDeclarator
	PropName
	PropParameter
	PropInitializer
	PropBody
	PropStatement
	PropDeclaration
	PropExpression
	PropPointer
	PropArrayModifier
	PropEnumerator
	PropLabel
	PropInitStatement
	PropIteration
)

var propertyNames = map[Property]string{
	PropNone:             "",
	PropOperand1:         "operand1",
	PropOperand2:         "operand2",
	PropOperand:          "operand",
	PropCondition:        "condition",
	PropThen:             "then",
	PropElse:             "else",
	PropTypeID:           "typeId",
	PropCallee:           "callee",
	PropArgument:         "argument",
	PropArray:            "array",
	PropSubscript:        "subscript",
	PropOwner:            "owner",
	PropMember:           "member",
	PropDeclSpec:         "declSpec",
	PropDeclarator:       "declarator",
	PropNestedDeclarator: "nestedDeclarator",
	PropName:             "name",
	PropParameter:        "parameter",
	PropInitializer:      "initializer",
	PropBody:             "body",
	PropStatement:        "statement",
	PropDeclaration:      "declaration",
	PropExpression:       "expression",
	PropPointer:          "pointer",
	PropArrayModifier:    "arrayModifier",
	PropEnumerator:       "enumerator",
	PropLabel:            "label",
	PropInitStatement:    "initStatement",
	PropIteration:        "iteration",
}

func (p Property) String() string {
	return propertyNames[p]
}

type Operator int

const (
	OpNone Operator = iota

	// Unary
	OpPlus
	OpMinus
	OpNot
	OpTilde
	OpStar
	OpAmp
	OpPrefixIncr
	OpPrefixDecr
	OpPostfixIncr
	OpPostfixDecr
	OpSizeof
	OpBracketedPrimary

	// Binary
	OpComma
	OpAssign
	OpMultiplyAssign
	OpDivideAssign
	OpModuloAssign
	OpPlusAssign
	OpMinusAssign
	OpShiftLeftAssign
	OpShiftRightAssign
	OpBinaryAndAssign
	OpBinaryXorAssign
	OpBinaryOrAssign
	OpConditional
	OpLogicalOr
	OpLogicalAnd
	OpBinaryOr
	OpBinaryXor
	OpBinaryAnd
	OpEquals
	OpNotEquals
	OpLessThan
	OpGreaterThan
	OpLessEqual
	OpGreaterEqual
	OpShiftLeft
	OpShiftRight
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpPointerToMemberDot
	OpPointerToMemberArrow

	// Field references
	OpDot
	OpArrow
)

var operatorSpellings = map[Operator]string{
	OpPlus:                 "+",
	OpMinus:                "-",
	OpNot:                  "!",
	OpTilde:                "~",
	OpStar:                 "*",
	OpAmp:                  "&",
	OpPrefixIncr:           "++",
	OpPrefixDecr:           "--",
	OpPostfixIncr:          "++",
	OpPostfixDecr:          "--",
	OpSizeof:               "sizeof",
	OpBracketedPrimary:     "()",
	OpComma:                ",",
	OpAssign:               "=",
	OpMultiplyAssign:       "*=",
	OpDivideAssign:         "/=",
	OpModuloAssign:         "%=",
	OpPlusAssign:           "+=",
	OpMinusAssign:          "-=",
	OpShiftLeftAssign:      "<<=",
	OpShiftRightAssign:     ">>=",
	OpBinaryAndAssign:      "&=",
	OpBinaryXorAssign:      "^=",
	OpBinaryOrAssign:       "|=",
	OpConditional:          "?:",
	OpLogicalOr:            "||",
	OpLogicalAnd:           "&&",
	OpBinaryOr:             "|",
	OpBinaryXor:            "^",
	OpBinaryAnd:            "&",
	OpEquals:               "==",
	OpNotEquals:            "!=",
	OpLessThan:             "<",
	OpGreaterThan:          ">",
	OpLessEqual:            "<=",
	OpGreaterEqual:         ">=",
	OpShiftLeft:            "<<",
	OpShiftRight:           ">>",
	OpAdd:                  "+",
	OpSubtract:             "-",
	OpMultiply:             "*",
	OpDivide:               "/",
	OpModulo:               "%",
	OpPointerToMemberDot:   ".*",
	OpPointerToMemberArrow: "->*",
	OpDot:                  ".",
	OpArrow:                "->",
}

func (o Operator) String() string {
	return operatorSpellings[o]
}

func (o Operator) IsPostfix() bool {
	return o == OpPostfixIncr || o == OpPostfixDecr
}

// AmbiguityKind selects the resolver applied to an ambiguous node.
type AmbiguityKind int

const (
	// AmbiguityGeneric picks the alternative with the fewest problem
	// bindings.
	AmbiguityGeneric AmbiguityKind = iota
	// AmbiguityBinaryVsCast holds [binary, cast] for `(T) op x` where op
	// is one of + - * &.
	AmbiguityBinaryVsCast
	// AmbiguityCastVsCall holds [cast, call] for `(T)(x)`.
	AmbiguityCastVsCall
)

func (k AmbiguityKind) String() string {
	switch k {
	case AmbiguityBinaryVsCast:
		return "binary-vs-cast"
	case AmbiguityCastVsCall:
		return "cast-vs-call"
	}
	return "generic"
}

// SpecifierFlags are the storage classes, qualifiers and function
// specifiers attached to a declaration specifier or pointer.
type SpecifierFlags uint16

const (
	SpecTypedef SpecifierFlags = 1 << iota
	SpecExtern
	SpecStatic
	SpecAuto
	SpecRegister
	SpecInline
	SpecConst
	SpecVolatile
	SpecRestrict
)

var specifierSpellings = []struct {
	flag SpecifierFlags
	text string
}{
	{SpecTypedef, "typedef"},
	{SpecExtern, "extern"},
	{SpecStatic, "static"},
	{SpecAuto, "auto"},
	{SpecRegister, "register"},
	{SpecInline, "inline"},
	{SpecConst, "const"},
	{SpecVolatile, "volatile"},
	{SpecRestrict, "restrict"},
}

// Words returns the C spelling of each set flag in canonical order.
func (f SpecifierFlags) Words() []string {
	var words []string
	for _, s := range specifierSpellings {
		if f&s.flag != 0 {
			words = append(words, s.text)
		}
	}
	return words
}

type ProblemCode int

const (
	ProblemSyntaxError ProblemCode = iota + 1
	ProblemUnexpectedEOF
	ProblemAborted
)

func (c ProblemCode) String() string {
	switch c {
	case ProblemSyntaxError:
		return "SyntaxError"
	case ProblemUnexpectedEOF:
		return "UnexpectedEOF"
	case ProblemAborted:
		return "Aborted"
	}
	return "Unknown"
}

// Problem is the diagnostic carried by a problem node.
type Problem struct {
	Code    ProblemCode
	Message string
	Offset  int
	Length  int
}
