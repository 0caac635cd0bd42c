package parser

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenCharLiteral
	TokenStringLiteral

	// Keywords
	TokenAuto
	TokenBool
	TokenBreak
	TokenCase
	TokenChar
	TokenConst
	TokenContinue
	TokenDefault
	TokenDo
	TokenDouble
	TokenElse
	TokenEnum
	TokenExtern
	TokenFloat
	TokenFor
	TokenGoto
	TokenIf
	TokenInline
	TokenInt
	TokenLong
	TokenRegister
	TokenRestrict
	TokenReturn
	TokenShort
	TokenSigned
	TokenSizeof
	TokenStatic
	TokenStruct
	TokenSwitch
	TokenTypedef
	TokenUnion
	TokenUnsigned
	TokenVoid
	TokenVolatile
	TokenWhile

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenArrow
	TokenEllipsis
	TokenQuestion
	TokenColon

	TokenAssign
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenAndAssign
	TokenOrAssign
	TokenXorAssign
	TokenShlAssign
	TokenShrAssign

	TokenEQ
	TokenNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenAndAnd
	TokenOrOr
	TokenNot
	TokenAmp
	TokenPipe
	TokenCaret
	TokenTilde
	TokenShl
	TokenShr
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenIncrement
	TokenDecrement
	TokenDotStar
	TokenArrowStar

	// Markers supplied by the token source
	TokenInactiveStart
	TokenInactiveEnd
	TokenCompletion
	TokenEndOfCompletion
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:             "EOF",
	TokenError:           "Error",
	TokenIdent:           "Identifier",
	TokenIntLiteral:      "IntLiteral",
	TokenFloatLiteral:    "FloatLiteral",
	TokenCharLiteral:     "CharLiteral",
	TokenStringLiteral:   "StringLiteral",
	TokenAuto:            "auto",
	TokenBool:            "_Bool",
	TokenBreak:           "break",
	TokenCase:            "case",
	TokenChar:            "char",
	TokenConst:           "const",
	TokenContinue:        "continue",
	TokenDefault:         "default",
	TokenDo:              "do",
	TokenDouble:          "double",
	TokenElse:            "else",
	TokenEnum:            "enum",
	TokenExtern:          "extern",
	TokenFloat:           "float",
	TokenFor:             "for",
	TokenGoto:            "goto",
	TokenIf:              "if",
	TokenInline:          "inline",
	TokenInt:             "int",
	TokenLong:            "long",
	TokenRegister:        "register",
	TokenRestrict:        "restrict",
	TokenReturn:          "return",
	TokenShort:           "short",
	TokenSigned:          "signed",
	TokenSizeof:          "sizeof",
	TokenStatic:          "static",
	TokenStruct:          "struct",
	TokenSwitch:          "switch",
	TokenTypedef:         "typedef",
	TokenUnion:           "union",
	TokenUnsigned:        "unsigned",
	TokenVoid:            "void",
	TokenVolatile:        "volatile",
	TokenWhile:           "while",
	TokenLParen:          "(",
	TokenRParen:          ")",
	TokenLBrace:          "{",
	TokenRBrace:          "}",
	TokenLBracket:        "[",
	TokenRBracket:        "]",
	TokenSemicolon:       ";",
	TokenComma:           ",",
	TokenDot:             ".",
	TokenArrow:           "->",
	TokenEllipsis:        "...",
	TokenQuestion:        "?",
	TokenColon:           ":",
	TokenAssign:          "=",
	TokenPlusAssign:      "+=",
	TokenMinusAssign:     "-=",
	TokenStarAssign:      "*=",
	TokenSlashAssign:     "/=",
	TokenPercentAssign:   "%=",
	TokenAndAssign:       "&=",
	TokenOrAssign:        "|=",
	TokenXorAssign:       "^=",
	TokenShlAssign:       "<<=",
	TokenShrAssign:       ">>=",
	TokenEQ:              "==",
	TokenNE:              "!=",
	TokenLT:              "<",
	TokenLE:              "<=",
	TokenGT:              ">",
	TokenGE:              ">=",
	TokenAndAnd:          "&&",
	TokenOrOr:            "||",
	TokenNot:             "!",
	TokenAmp:             "&",
	TokenPipe:            "|",
	TokenCaret:           "^",
	TokenTilde:           "~",
	TokenShl:             "<<",
	TokenShr:             ">>",
	TokenPlus:            "+",
	TokenMinus:           "-",
	TokenStar:            "*",
	TokenSlash:           "/",
	TokenPercent:         "%",
	TokenIncrement:       "++",
	TokenDecrement:       "--",
	TokenDotStar:         ".*",
	TokenArrowStar:       "->*",
	TokenInactiveStart:   "InactiveStart",
	TokenInactiveEnd:     "InactiveEnd",
	TokenCompletion:      "Completion",
	TokenEndOfCompletion: "EndOfCompletion",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsBoundary reports whether the kind marks the edge of a region excluded
// by conditional compilation.
func (k TokenKind) IsBoundary() bool {
	return k == TokenInactiveStart || k == TokenInactiveEnd
}

// Token is a lexical token. Inactive tokens come from regions excluded by
// conditional compilation and are only produced when the source was asked
// to keep them.
type Token struct {
	Kind     TokenKind
	Offset   int
	Length   int
	Literal  string
	Inactive bool
}

func (t Token) End() int {
	return t.Offset + t.Length
}

// TokenSource supplies tokens in order. Once the input is exhausted it keeps
// returning TokenEOF.
type TokenSource interface {
	NextToken() Token
}

var keywords = map[string]TokenKind{
	"auto":     TokenAuto,
	"_Bool":    TokenBool,
	"break":    TokenBreak,
	"case":     TokenCase,
	"char":     TokenChar,
	"const":    TokenConst,
	"continue": TokenContinue,
	"default":  TokenDefault,
	"do":       TokenDo,
	"double":   TokenDouble,
	"else":     TokenElse,
	"enum":     TokenEnum,
	"extern":   TokenExtern,
	"float":    TokenFloat,
	"for":      TokenFor,
	"goto":     TokenGoto,
	"if":       TokenIf,
	"inline":   TokenInline,
	"int":      TokenInt,
	"long":     TokenLong,
	"register": TokenRegister,
	"restrict": TokenRestrict,
	"return":   TokenReturn,
	"short":    TokenShort,
	"signed":   TokenSigned,
	"sizeof":   TokenSizeof,
	"static":   TokenStatic,
	"struct":   TokenStruct,
	"switch":   TokenSwitch,
	"typedef":  TokenTypedef,
	"union":    TokenUnion,
	"unsigned": TokenUnsigned,
	"void":     TokenVoid,
	"volatile": TokenVolatile,
	"while":    TokenWhile,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
