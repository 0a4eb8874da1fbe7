package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/caseywise/tmplc/lexer"
)

// Parser is a recursive-descent parser fused with the lexer: it pulls one
// token at a time rather than tokenizing the whole input up front, so
// span tracking and error reporting stay cheap even for large templates.
type Parser struct {
	lex    *lexer.Lexer
	syntax lexer.Syntax
	name   string

	cur  *lexer.Token
	peek *lexer.Token

	sawSignificantNode bool // for the "extends must be first" invariant
	sawExtends         bool
}

// Parse parses one template's source bytes under the given Syntax.
func Parse(name, source string, syntax lexer.Syntax) (*Template, error) {
	if err := syntax.Validate(); err != nil {
		return nil, err
	}
	p := &Parser{lex: lexer.New(source, syntax), syntax: syntax, name: name}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	children, err := p.parseNodes()
	if err != nil {
		return nil, err
	}
	return &Template{Name: name, Children: children}, nil
}

func (p *Parser) advance() error {
	p.cur = p.peek
	tok, err := p.lex.NextToken()
	if err != nil {
		return err
	}
	p.peek = tok
	return nil
}

func (p *Parser) errf(span Span, format string, args ...interface{}) error {
	return &ParseError{Message: fmt.Sprintf(format, args...), Span: span}
}

func openTrim(startTok *lexer.Token) TrimFlag {
	return trimFromTok(startTok.TrimRight, startTok.KeepRight)
}

func trimFromTok(trim, keep bool) TrimFlag {
	switch {
	case trim:
		return TrimSuppress
	case keep:
		return TrimPreserve
	default:
		return TrimDefault
	}
}

// parseNodes consumes nodes until EOF or (if inside a block) the caller's
// loop notices an end-keyword and returns.
func (p *Parser) parseNodes(stopAt ...lexer.TokenType) ([]Node, error) {
	var nodes []Node
	for {
		if p.cur.Type == lexer.TokenEOF {
			return nodes, nil
		}
		if p.matchesStop(stopAt) {
			return nodes, nil
		}
		node, err := p.parseOne()
		if err != nil {
			return nil, err
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}
}

func (p *Parser) matchesStop(stopAt []lexer.TokenType) bool {
	if p.cur.Type != lexer.TokenBlockStart && p.cur.Type != lexer.TokenBlockStartTrim && p.cur.Type != lexer.TokenBlockStartKeep {
		return false
	}
	return p.peekKeywordIn(stopAt)
}

// peekKeywordIn checks whether the keyword following a block-start
// delimiter (already held in p.peek by the two-token lookahead) is one
// of the given stop keywords.
func (p *Parser) peekKeywordIn(stopAt []lexer.TokenType) bool {
	for _, want := range stopAt {
		if p.peek.Type == want {
			return true
		}
	}
	return false
}

func (p *Parser) parseOne() (Node, error) {
	switch p.cur.Type {
	case lexer.TokenText:
		return p.parseLit()
	case lexer.TokenExprStart, lexer.TokenExprStartTrim, lexer.TokenExprStartKeep:
		return p.parseExprStmt()
	case lexer.TokenBlockStart, lexer.TokenBlockStartTrim, lexer.TokenBlockStartKeep:
		return p.parseBlockTag()
	default:
		return nil, p.errf(p.cur.Span, "unexpected token %s", p.cur.Type)
	}
}

func (p *Parser) parseLit() (Node, error) {
	tok := p.cur
	n := &Lit{base: base{tok.Span}, Text: tok.Value}
	if strings.TrimSpace(tok.Value) != "" {
		p.sawSignificantNode = true
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Parser) parseExprStmt() (Node, error) {
	start := p.cur.Span
	pre := openTrim(p.cur)
	if err := p.advance(); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != lexer.TokenExprEnd && p.cur.Type != lexer.TokenExprEndTrim && p.cur.Type != lexer.TokenExprEndKeep {
		return nil, p.errf(p.cur.Span, "expected '}}' to close expression, got %s", p.cur.Type)
	}
	post := trimFromTok(p.cur.TrimLeft, p.cur.KeepLeft)
	end := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	p.sawSignificantNode = true
	return &ExprStmt{base: base{mergeSpan(start, end)}, Trim: Trim{Pre: pre, Post: post}, Value: val}, nil
}

func mergeSpan(a, b Span) Span {
	return Span{Start: a.Start, End: b.End, Line: a.Line, Column: a.Column}
}

// expectKeyword asserts p.cur is the given keyword token inside a block
// tag and advances past it.
func (p *Parser) expectKeyword(tt lexer.TokenType) error {
	if p.cur.Type != tt {
		return p.errf(p.cur.Span, "expected %s, got %s", tt, p.cur.Type)
	}
	return p.advance()
}

// enterBlockTag consumes the opening "{%[-+]" delimiter and the keyword
// token, returning the keyword's token for span bookkeeping.
func (p *Parser) enterBlockTag() (*lexer.Token, error) {
	if err := p.advance(); err != nil { // past {% / {%- / {%+
		return nil, err
	}
	return p.cur, nil
}

// closeBlockTag expects and consumes "%}"/"-%}"/"+%}", returning the
// TrimFlag this tag's closing delimiter requests for the following text.
func (p *Parser) closeBlockTag() (TrimFlag, error) {
	switch p.cur.Type {
	case lexer.TokenBlockEnd, lexer.TokenBlockEndTrim, lexer.TokenBlockEndKeep:
		post := trimFromTok(p.cur.TrimLeft, p.cur.KeepLeft)
		return post, p.advance()
	default:
		return TrimDefault, p.errf(p.cur.Span, "expected '%%}' to close tag, got %s", p.cur.Type)
	}
}

func (p *Parser) parseBlockTag() (Node, error) {
	startTok := p.cur
	kw, err := p.enterBlockTag()
	if err != nil {
		return nil, err
	}

	switch kw.Type {
	case lexer.TokenIf:
		return p.parseIf(startTok)
	case lexer.TokenFor:
		return p.parseFor(startTok)
	case lexer.TokenMatch:
		return p.parseMatch(startTok)
	case lexer.TokenLet, lexer.TokenSet:
		return p.parseLet(startTok)
	case lexer.TokenBlock:
		return p.parseBlockDef(startTok)
	case lexer.TokenExtends:
		return p.parseExtends(startTok)
	case lexer.TokenImport:
		return p.parseImport(startTok)
	case lexer.TokenInclude:
		return p.parseInclude(startTok)
	case lexer.TokenMacro:
		return p.parseMacro(startTok)
	case lexer.TokenCall:
		return p.parseCall(startTok)
	case lexer.TokenFilterKw:
		return p.parseFilter(startTok)
	case lexer.TokenRaw:
		return p.parseRaw(startTok)
	case lexer.TokenBreak:
		if err := p.advance(); err != nil {
			return nil, err
		}
		post, err := p.closeBlockTag()
		if err != nil {
			return nil, err
		}
		return &Break{base: base{startTok.Span}, Trim: Trim{Pre: openTrim(startTok), Post: post}}, nil
	case lexer.TokenContinue:
		if err := p.advance(); err != nil {
			return nil, err
		}
		post, err := p.closeBlockTag()
		if err != nil {
			return nil, err
		}
		return &Continue{base: base{startTok.Span}, Trim: Trim{Pre: openTrim(startTok), Post: post}}, nil
	default:
		return nil, p.errf(kw.Span, "unknown tag keyword %q", kw.Value)
	}
}

// ---- if/elif/else ----

func (p *Parser) parseIf(startTok *lexer.Token) (Node, error) {
	var arms []Cond
	arm, err := p.parseCondHead(startTok, lexer.TokenIf)
	if err != nil {
		return nil, err
	}
	body, err := p.parseNodes(lexer.TokenElif, lexer.TokenElse, lexer.TokenEndif)
	if err != nil {
		return nil, err
	}
	arm.Body = body
	arms = append(arms, arm)

	for p.peek.Type == lexer.TokenElif {
		elifStart := p.cur
		if _, err := p.enterBlockTag(); err != nil {
			return nil, err
		}
		elifArm, err := p.parseCondHead(elifStart, lexer.TokenElif)
		if err != nil {
			return nil, err
		}
		elifBody, err := p.parseNodes(lexer.TokenElif, lexer.TokenElse, lexer.TokenEndif)
		if err != nil {
			return nil, err
		}
		elifArm.Body = elifBody
		arms = append(arms, elifArm)
	}

	if p.peek.Type == lexer.TokenElse {
		elseStart := p.cur
		if _, err := p.enterBlockTag(); err != nil {
			return nil, err
		}
		if err := p.expectKeyword(lexer.TokenElse); err != nil {
			return nil, err
		}
		post, err := p.closeBlockTag()
		if err != nil {
			return nil, err
		}
		elseBody, err := p.parseNodes(lexer.TokenEndif)
		if err != nil {
			return nil, err
		}
		arms = append(arms, Cond{Trim: Trim{Pre: openTrim(elseStart), Post: post}, Kind: CondElse, Body: elseBody, Span: elseStart.Span})
	}

	endifStart := p.cur
	if _, err := p.enterBlockTag(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword(lexer.TokenEndif); err != nil {
		return nil, err
	}
	post, err := p.closeBlockTag()
	if err != nil {
		return nil, err
	}

	return &If{base: base{startTok.Span}, Trim: Trim{Pre: openTrim(endifStart), Post: post}, Arms: arms}, nil
}

// parseCondHead parses `if cond`/`elif cond`/`if let pat = cond` up to
// and including the closing "%}", without the body.
func (p *Parser) parseCondHead(startTok *lexer.Token, kw lexer.TokenType) (Cond, error) {
	if err := p.expectKeyword(kw); err != nil {
		return Cond{}, err
	}
	if p.cur.Type == lexer.TokenLet {
		if err := p.advance(); err != nil {
			return Cond{}, err
		}
		target, err := p.parsePattern()
		if err != nil {
			return Cond{}, err
		}
		if err := p.expectKeyword(lexer.TokenAssign); err != nil {
			return Cond{}, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return Cond{}, err
		}
		post, err := p.closeBlockTag()
		if err != nil {
			return Cond{}, err
		}
		return Cond{Trim: Trim{Pre: openTrim(startTok), Post: post}, Kind: CondLet, LetTarget: target, Expr: val, Span: startTok.Span}, nil
	}
	val, err := p.parseExpr()
	if err != nil {
		return Cond{}, err
	}
	post, err := p.closeBlockTag()
	if err != nil {
		return Cond{}, err
	}
	return Cond{Trim: Trim{Pre: openTrim(startTok), Post: post}, Kind: CondExpr, Expr: val, Span: startTok.Span}, nil
}

// ---- for ----

func (p *Parser) parseFor(startTok *lexer.Token) (Node, error) {
	if err := p.expectKeyword(lexer.TokenFor); err != nil {
		return nil, err
	}
	target, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(lexer.TokenIn); err != nil {
		return nil, err
	}
	iter, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	headPost, err := p.closeBlockTag()
	if err != nil {
		return nil, err
	}
	body, err := p.parseNodes(lexer.TokenElse, lexer.TokenEndfor)
	if err != nil {
		return nil, err
	}
	var elseBody []Node
	var elseTrim Trim
	if p.peek.Type == lexer.TokenElse {
		elseStart := p.cur
		if _, err := p.enterBlockTag(); err != nil {
			return nil, err
		}
		if err := p.expectKeyword(lexer.TokenElse); err != nil {
			return nil, err
		}
		elsePost, err := p.closeBlockTag()
		if err != nil {
			return nil, err
		}
		elseTrim = Trim{Pre: openTrim(elseStart), Post: elsePost}
		elseBody, err = p.parseNodes(lexer.TokenEndfor)
		if err != nil {
			return nil, err
		}
	}
	endforStart := p.cur
	if _, err := p.enterBlockTag(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword(lexer.TokenEndfor); err != nil {
		return nil, err
	}
	endPost, err := p.closeBlockTag()
	if err != nil {
		return nil, err
	}
	return &For{
		base:      base{startTok.Span},
		Trim:      Trim{Pre: openTrim(startTok), Post: headPost},
		ElseTrim:  elseTrim,
		CloseTrim: Trim{Pre: openTrim(endforStart), Post: endPost},
		Target:    target,
		Iter:      iter,
		Body:      body,
		Else:      elseBody,
	}, nil
}

// ---- match/when ----

func (p *Parser) parseMatch(startTok *lexer.Token) (Node, error) {
	if err := p.expectKeyword(lexer.TokenMatch); err != nil {
		return nil, err
	}
	scrutinee, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	headPost, err := p.closeBlockTag()
	if err != nil {
		return nil, err
	}

	var arms []MatchArm
	for p.peek.Type == lexer.TokenWhen {
		armStart := p.cur
		if _, err := p.enterBlockTag(); err != nil {
			return nil, err
		}
		if err := p.expectKeyword(lexer.TokenWhen); err != nil {
			return nil, err
		}
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		var guard Expr
		if p.cur.Type == lexer.TokenIf {
			if err := p.advance(); err != nil {
				return nil, err
			}
			guard, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		post, err := p.closeBlockTag()
		if err != nil {
			return nil, err
		}
		body, err := p.parseNodes(lexer.TokenWhen, lexer.TokenEndmatch)
		if err != nil {
			return nil, err
		}
		arms = append(arms, MatchArm{Trim: Trim{Pre: openTrim(armStart), Post: post}, Pattern: pat, Guard: guard, Body: body, Span: armStart.Span})
	}

	endStart := p.cur
	if _, err := p.enterBlockTag(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword(lexer.TokenEndmatch); err != nil {
		return nil, err
	}
	endPost, err := p.closeBlockTag()
	if err != nil {
		return nil, err
	}

	return &Match{
		base:      base{startTok.Span},
		Trim:      Trim{Pre: openTrim(startTok), Post: headPost},
		CloseTrim: Trim{Pre: openTrim(endStart), Post: endPost},
		Scrutinee: scrutinee,
		Arms:      arms,
	}, nil
}

// ---- let/set ----

func (p *Parser) parseLet(startTok *lexer.Token) (Node, error) {
	kw := p.cur.Type
	if err := p.expectKeyword(kw); err != nil {
		return nil, err
	}
	target, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	var value Expr
	if p.cur.Type == lexer.TokenAssign {
		if err := p.advance(); err != nil {
			return nil, err
		}
		value, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	post, err := p.closeBlockTag()
	if err != nil {
		return nil, err
	}
	p.sawSignificantNode = true
	return &Let{base: base{startTok.Span}, Trim: Trim{Pre: openTrim(startTok), Post: post}, Target: target, Value: value}, nil
}

// ---- block ----

func (p *Parser) parseBlockDef(startTok *lexer.Token) (Node, error) {
	if err := p.expectKeyword(lexer.TokenBlock); err != nil {
		return nil, err
	}
	if p.cur.Type != lexer.TokenIdentifier {
		return nil, p.errf(p.cur.Span, "expected block name, got %s", p.cur.Type)
	}
	name := p.cur.Value
	if err := p.advance(); err != nil {
		return nil, err
	}
	headPost, err := p.closeBlockTag()
	if err != nil {
		return nil, err
	}
	body, err := p.parseNodes(lexer.TokenEndblock)
	if err != nil {
		return nil, err
	}
	endblockStart := p.cur
	if _, err := p.enterBlockTag(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword(lexer.TokenEndblock); err != nil {
		return nil, err
	}
	if p.cur.Type == lexer.TokenIdentifier {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	endPost, err := p.closeBlockTag()
	if err != nil {
		return nil, err
	}
	p.sawSignificantNode = true
	return &BlockDef{
		base:      base{startTok.Span},
		Trim:      Trim{Pre: openTrim(startTok), Post: headPost},
		CloseTrim: Trim{Pre: openTrim(endblockStart), Post: endPost},
		Name:      name,
		Body:      body,
	}, nil
}

// ---- extends ----

func (p *Parser) parseExtends(startTok *lexer.Token) (Node, error) {
	if p.sawSignificantNode {
		return nil, p.errf(startTok.Span, "extends must be the first statement in the template")
	}
	if p.sawExtends {
		return nil, p.errf(startTok.Span, "a template may have at most one extends")
	}
	if err := p.expectKeyword(lexer.TokenExtends); err != nil {
		return nil, err
	}
	path, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	post, err := p.closeBlockTag()
	if err != nil {
		return nil, err
	}
	p.sawExtends = true
	p.sawSignificantNode = true
	return &Extends{base: base{startTok.Span}, Trim: Trim{Pre: openTrim(startTok), Post: post}, Path: path}, nil
}

// ---- import ----

func (p *Parser) parseImport(startTok *lexer.Token) (Node, error) {
	if err := p.expectKeyword(lexer.TokenImport); err != nil {
		return nil, err
	}
	path, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(lexer.TokenAs); err != nil {
		return nil, err
	}
	if p.cur.Type != lexer.TokenIdentifier {
		return nil, p.errf(p.cur.Span, "expected scope name after 'as'")
	}
	scope := p.cur.Value
	if err := p.advance(); err != nil {
		return nil, err
	}
	post, err := p.closeBlockTag()
	if err != nil {
		return nil, err
	}
	p.sawSignificantNode = true
	return &Import{base: base{startTok.Span}, Trim: Trim{Pre: openTrim(startTok), Post: post}, Path: path, Scope: scope}, nil
}

// ---- include ----

func (p *Parser) parseInclude(startTok *lexer.Token) (Node, error) {
	if err := p.expectKeyword(lexer.TokenInclude); err != nil {
		return nil, err
	}
	path, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	ignoreMissing := false
	if p.cur.Type == lexer.TokenIdentifier && p.cur.Value == "ignore" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Type == lexer.TokenIdentifier && p.cur.Value == "missing" {
			ignoreMissing = true
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	post, err := p.closeBlockTag()
	if err != nil {
		return nil, err
	}
	p.sawSignificantNode = true
	return &Include{base: base{startTok.Span}, Trim: Trim{Pre: openTrim(startTok), Post: post}, Path: path, IgnoreMissing: ignoreMissing}, nil
}

// ---- macro ----

func (p *Parser) parseMacro(startTok *lexer.Token) (Node, error) {
	if err := p.expectKeyword(lexer.TokenMacro); err != nil {
		return nil, err
	}
	if p.cur.Type != lexer.TokenIdentifier {
		return nil, p.errf(p.cur.Span, "expected macro name")
	}
	name := p.cur.Value
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword(lexer.TokenLParen); err != nil {
		return nil, err
	}
	var params []MacroParam
	for p.cur.Type != lexer.TokenRParen {
		if p.cur.Type != lexer.TokenIdentifier {
			return nil, p.errf(p.cur.Span, "expected parameter name")
		}
		param := MacroParam{Name: p.cur.Value}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Type == lexer.TokenAssign {
			if err := p.advance(); err != nil {
				return nil, err
			}
			def, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			param.Default = def
		}
		params = append(params, param)
		if p.cur.Type == lexer.TokenComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.advance(); err != nil { // ')'
		return nil, err
	}
	headPost, err := p.closeBlockTag()
	if err != nil {
		return nil, err
	}
	body, err := p.parseNodes(lexer.TokenEndmacro)
	if err != nil {
		return nil, err
	}
	endmacroStart := p.cur
	if _, err := p.enterBlockTag(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword(lexer.TokenEndmacro); err != nil {
		return nil, err
	}
	endPost, err := p.closeBlockTag()
	if err != nil {
		return nil, err
	}
	p.sawSignificantNode = true
	return &Macro{
		base:      base{startTok.Span},
		Trim:      Trim{Pre: openTrim(startTok), Post: headPost},
		CloseTrim: Trim{Pre: openTrim(endmacroStart), Post: endPost},
		Name:      name,
		Params:    params,
		Body:      body,
	}, nil
}

// ---- call/endcall ----

func (p *Parser) parseCall(startTok *lexer.Token) (Node, error) {
	if err := p.expectKeyword(lexer.TokenCall); err != nil {
		return nil, err
	}
	scope, name, args, named, order, err := p.parseCallTarget()
	if err != nil {
		return nil, err
	}
	headPost, err := p.closeBlockTag()
	if err != nil {
		return nil, err
	}
	// A bare {% call macro(args) %} with no {% endcall %} immediately
	// following is also valid; only look for a caller() body if present.
	if p.peek.Type == lexer.TokenEndcall {
		body, err := p.parseNodes(lexer.TokenEndcall)
		if err != nil {
			return nil, err
		}
		endcallStart := p.cur
		if _, err := p.enterBlockTag(); err != nil {
			return nil, err
		}
		if err := p.expectKeyword(lexer.TokenEndcall); err != nil {
			return nil, err
		}
		endPost, err := p.closeBlockTag()
		if err != nil {
			return nil, err
		}
		p.sawSignificantNode = true
		return &Call{
			base:      base{startTok.Span},
			Trim:      Trim{Pre: openTrim(startTok), Post: headPost},
			CloseTrim: Trim{Pre: openTrim(endcallStart), Post: endPost},
			Scope:     scope, Name: name, Args: args, NamedArgs: named, ArgOrder: order, Body: body,
		}, nil
	}
	p.sawSignificantNode = true
	return &Call{base: base{startTok.Span}, Trim: Trim{Pre: openTrim(startTok), Post: headPost}, Scope: scope, Name: name, Args: args, NamedArgs: named, ArgOrder: order}, nil
}

// parseCallTarget parses `[scope.]name(args)`.
func (p *Parser) parseCallTarget() (scope, name string, args []Expr, named map[string]Expr, order []string, err error) {
	if p.cur.Type != lexer.TokenIdentifier {
		err = p.errf(p.cur.Span, "expected macro name")
		return
	}
	first := p.cur.Value
	if e := p.advance(); e != nil {
		err = e
		return
	}
	if p.cur.Type == lexer.TokenDot {
		if e := p.advance(); e != nil {
			err = e
			return
		}
		if p.cur.Type != lexer.TokenIdentifier {
			err = p.errf(p.cur.Span, "expected macro name after scope")
			return
		}
		scope = first
		name = p.cur.Value
		if e := p.advance(); e != nil {
			err = e
			return
		}
	} else {
		name = first
	}
	if p.cur.Type != lexer.TokenLParen {
		err = p.errf(p.cur.Span, "expected '(' in macro call")
		return
	}
	args, named, order, err = p.parseArgList()
	return
}

// parseArgList parses a parenthesized positional/named argument list.
// Positional args must all precede named args.
func (p *Parser) parseArgList() ([]Expr, map[string]Expr, []string, error) {
	if err := p.advance(); err != nil { // '('
		return nil, nil, nil, err
	}
	var positional []Expr
	named := map[string]Expr{}
	var order []string
	seenNamed := false
	for p.cur.Type != lexer.TokenRParen {
		if p.cur.Type == lexer.TokenIdentifier && p.peek.Type == lexer.TokenAssign {
			key := p.cur.Value
			if err := p.advance(); err != nil {
				return nil, nil, nil, err
			}
			if err := p.advance(); err != nil { // '='
				return nil, nil, nil, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, nil, nil, err
			}
			if _, dup := named[key]; dup {
				return nil, nil, nil, p.errf(p.cur.Span, "duplicate named argument %q", key)
			}
			named[key] = val
			order = append(order, key)
			seenNamed = true
		} else {
			if seenNamed {
				return nil, nil, nil, p.errf(p.cur.Span, "positional argument after named argument")
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, nil, nil, err
			}
			positional = append(positional, val)
		}
		if p.cur.Type == lexer.TokenComma {
			if err := p.advance(); err != nil {
				return nil, nil, nil, err
			}
		}
	}
	if err := p.advance(); err != nil { // ')'
		return nil, nil, nil, err
	}
	return positional, named, order, nil
}

// ---- filter block ----

func (p *Parser) parseFilter(startTok *lexer.Token) (Node, error) {
	if err := p.expectKeyword(lexer.TokenFilterKw); err != nil {
		return nil, err
	}
	if p.cur.Type != lexer.TokenIdentifier {
		return nil, p.errf(p.cur.Span, "expected filter name")
	}
	name := p.cur.Value
	if err := p.advance(); err != nil {
		return nil, err
	}
	var args []Expr
	if p.cur.Type == lexer.TokenLParen {
		positional, named, _, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		if len(named) > 0 {
			return nil, p.errf(p.cur.Span, "filter blocks do not accept named arguments")
		}
		args = positional
	}
	headPost, err := p.closeBlockTag()
	if err != nil {
		return nil, err
	}
	body, err := p.parseNodes(lexer.TokenEndfilter)
	if err != nil {
		return nil, err
	}
	endfilterStart := p.cur
	if _, err := p.enterBlockTag(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword(lexer.TokenEndfilter); err != nil {
		return nil, err
	}
	endPost, err := p.closeBlockTag()
	if err != nil {
		return nil, err
	}
	p.sawSignificantNode = true
	return &Filter{
		base:      base{startTok.Span},
		Trim:      Trim{Pre: openTrim(startTok), Post: headPost},
		CloseTrim: Trim{Pre: openTrim(endfilterStart), Post: endPost},
		Name:      name,
		Args:      args,
		Body:      body,
	}, nil
}

// ---- raw ----

func (p *Parser) parseRaw(startTok *lexer.Token) (Node, error) {
	// Arm raw-mode before consuming the "raw" keyword: the two-token
	// lookahead means the very next advance() prefetches the token that
	// immediately follows "%}", i.e. the start of the raw body, so
	// delimiters inside it must already be ignored by then.
	p.lex.EnterRawMode()
	if err := p.expectKeyword(lexer.TokenRaw); err != nil {
		return nil, err
	}
	headPost, err := p.closeBlockTag()
	if err != nil {
		return nil, err
	}
	var text string
	if p.cur.Type == lexer.TokenText {
		text = p.cur.Value
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	endrawStart := p.cur
	if _, err := p.enterBlockTag(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword(lexer.TokenEndraw); err != nil {
		return nil, err
	}
	endPost, err := p.closeBlockTag()
	if err != nil {
		return nil, err
	}
	p.sawSignificantNode = true
	return &Raw{
		base:      base{startTok.Span},
		Trim:      Trim{Pre: openTrim(startTok), Post: headPost},
		CloseTrim: Trim{Pre: openTrim(endrawStart), Post: endPost},
		Text:      text,
	}, nil
}

// ---- patterns ----

func (p *Parser) parsePattern() (Pattern, error) {
	switch p.cur.Type {
	case lexer.TokenIdentifier:
		if p.cur.Value == "_" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			return PatWildcard{}, nil
		}
		first := p.cur.Value
		if err := p.advance(); err != nil {
			return nil, err
		}
		segs := []string{first}
		for p.cur.Type == lexer.TokenDot {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.Type != lexer.TokenIdentifier {
				return nil, p.errf(p.cur.Span, "expected identifier in path pattern")
			}
			segs = append(segs, p.cur.Value)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if len(segs) > 1 {
			if p.cur.Type == lexer.TokenLParen {
				elems, err := p.parsePatternTuple()
				if err != nil {
					return nil, err
				}
				return PatStruct{Path: segs, Elems: elems}, nil
			}
			if p.cur.Type == lexer.TokenLBrace {
				fields, err := p.parsePatternFields()
				if err != nil {
					return nil, err
				}
				return PatStruct{Path: segs, Fields: fields}, nil
			}
			return PatPath{Segments: segs}, nil
		}
		if p.cur.Type == lexer.TokenLParen {
			elems, err := p.parsePatternTuple()
			if err != nil {
				return nil, err
			}
			return PatStruct{Path: segs, Elems: elems}, nil
		}
		if p.cur.Type == lexer.TokenLBrace {
			fields, err := p.parsePatternFields()
			if err != nil {
				return nil, err
			}
			return PatStruct{Path: segs, Fields: fields}, nil
		}
		return PatVar{Name: first}, nil

	case lexer.TokenLParen:
		elems, err := p.parsePatternTuple()
		if err != nil {
			return nil, err
		}
		return PatTuple{Elems: elems}, nil

	default:
		lit, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return PatLit{Value: lit}, nil
	}
}

func (p *Parser) parsePatternTuple() ([]Pattern, error) {
	if err := p.advance(); err != nil { // '('
		return nil, err
	}
	var elems []Pattern
	for p.cur.Type != lexer.TokenRParen {
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		elems = append(elems, pat)
		if p.cur.Type == lexer.TokenComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	return elems, p.advance()
}

func (p *Parser) parsePatternFields() (map[string]Pattern, error) {
	if err := p.advance(); err != nil { // '{'
		return nil, err
	}
	fields := map[string]Pattern{}
	for p.cur.Type != lexer.TokenRBrace {
		if p.cur.Type != lexer.TokenIdentifier {
			return nil, p.errf(p.cur.Span, "expected field name in struct pattern")
		}
		field := p.cur.Value
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Type == lexer.TokenColon {
			if err := p.advance(); err != nil {
				return nil, err
			}
			pat, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			fields[field] = pat
		} else {
			fields[field] = PatVar{Name: field}
		}
		if p.cur.Type == lexer.TokenComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	return fields, p.advance()
}

// ---- expressions: Pratt precedence climbing ----
//
// loosest -> tightest:
//   or, range, and, comparison, bitor, bitxor, bitand, shift,
//   additive, multiplicative, unary, postfix, primary

func (p *Parser) parseExpr() (Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseRange()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.TokenOrOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseRange()
		if err != nil {
			return nil, err
		}
		left = &Binary{base: base{mergeSpan(left.Span(), right.Span())}, Op: "||", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseRange() (Expr, error) {
	if p.cur.Type == lexer.TokenDotDot || p.cur.Type == lexer.TokenDotDotEqual {
		return p.finishRange(nil)
	}
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	if p.cur.Type == lexer.TokenDotDot || p.cur.Type == lexer.TokenDotDotEqual {
		return p.finishRange(left)
	}
	return left, nil
}

func (p *Parser) finishRange(start Expr) (Expr, error) {
	inclusive := p.cur.Type == lexer.TokenDotDotEqual
	startSpan := p.cur.Span
	if start != nil {
		startSpan = start.Span()
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var end Expr
	if canStartExpr(p.cur.Type) {
		e, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		end = e
	}
	endSpan := startSpan
	if end != nil {
		endSpan = end.Span()
	}
	return &Range{base: base{mergeSpan(startSpan, endSpan)}, Start: start, End: end, Inclusive: inclusive}, nil
}

func canStartExpr(t lexer.TokenType) bool {
	switch t {
	case lexer.TokenExprEnd, lexer.TokenExprEndTrim, lexer.TokenExprEndKeep,
		lexer.TokenBlockEnd, lexer.TokenBlockEndTrim, lexer.TokenBlockEndKeep,
		lexer.TokenRParen, lexer.TokenRBracket, lexer.TokenComma, lexer.TokenEOF:
		return false
	default:
		return true
	}
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.TokenAndAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &Binary{base: base{mergeSpan(left.Span(), right.Span())}, Op: "&&", Left: left, Right: right}
	}
	return left, nil
}

var comparisonOps = map[lexer.TokenType]string{
	lexer.TokenEq: "==", lexer.TokenNe: "!=", lexer.TokenLt: "<",
	lexer.TokenLe: "<=", lexer.TokenGt: ">", lexer.TokenGe: ">=",
}

func (p *Parser) parseComparison() (Expr, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	if op, ok := comparisonOps[p.cur.Type]; ok {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		left = &Binary{base: base{mergeSpan(left.Span(), right.Span())}, Op: op, Left: left, Right: right}
	}
	return left, nil
}

// parseBitOr implements bitwise-or. Because '|' also introduces a filter,
// the postfix parser greedily consumes any `|identifier` shape first,
// since filters bind tighter than unary operators; by the time control
// reaches here any remaining bare '|' was not followed by an identifier
// and is therefore unambiguously bitwise-or.
func (p *Parser) parseBitOr() (Expr, error) {
	left, err := p.parseBitXor()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.TokenPipe {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseBitXor()
		if err != nil {
			return nil, err
		}
		left = &Binary{base: base{mergeSpan(left.Span(), right.Span())}, Op: "|", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseBitXor() (Expr, error) {
	left, err := p.parseBitAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.TokenCaret {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseBitAnd()
		if err != nil {
			return nil, err
		}
		left = &Binary{base: base{mergeSpan(left.Span(), right.Span())}, Op: "^", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseBitAnd() (Expr, error) {
	left, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.TokenAmp {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		left = &Binary{base: base{mergeSpan(left.Span(), right.Span())}, Op: "&", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseShift() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.TokenShl || p.cur.Type == lexer.TokenShr {
		op := "<<"
		if p.cur.Type == lexer.TokenShr {
			op = ">>"
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &Binary{base: base{mergeSpan(left.Span(), right.Span())}, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.TokenPlus || p.cur.Type == lexer.TokenMinus || p.cur.Type == lexer.TokenTilde {
		op := map[lexer.TokenType]string{lexer.TokenPlus: "+", lexer.TokenMinus: "-", lexer.TokenTilde: "~"}[p.cur.Type]
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &Binary{base: base{mergeSpan(left.Span(), right.Span())}, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.TokenStar || p.cur.Type == lexer.TokenSlash || p.cur.Type == lexer.TokenPercent {
		op := map[lexer.TokenType]string{lexer.TokenStar: "*", lexer.TokenSlash: "/", lexer.TokenPercent: "%"}[p.cur.Type]
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Binary{base: base{mergeSpan(left.Span(), right.Span())}, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	switch p.cur.Type {
	case lexer.TokenBang, lexer.TokenNot:
		start := p.cur.Span
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{base: base{mergeSpan(start, operand.Span())}, Op: "!", Operand: operand}, nil
	case lexer.TokenMinus:
		start := p.cur.Span
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{base: base{mergeSpan(start, operand.Span())}, Op: "-", Operand: operand}, nil
	case lexer.TokenStar:
		start := p.cur.Span
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{base: base{mergeSpan(start, operand.Span())}, Op: "*", Operand: operand}, nil
	case lexer.TokenAmp:
		start := p.cur.Span
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{base: base{mergeSpan(start, operand.Span())}, Op: "&", Operand: operand}, nil
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Type {
		case lexer.TokenDot:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.Type != lexer.TokenIdentifier {
				return nil, p.errf(p.cur.Span, "expected identifier after '.'")
			}
			name := p.cur.Value
			nameSpan := p.cur.Span
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.Type == lexer.TokenLParen {
				args, named, _, err := p.parseArgList()
				if err != nil {
					return nil, err
				}
				if len(named) > 0 {
					return nil, p.errf(nameSpan, "method calls do not accept named arguments")
				}
				expr = &MethodCall{base: base{mergeSpan(expr.Span(), nameSpan)}, Receiver: expr, Name: name, Args: args}
			} else {
				expr = &Attr{base: base{mergeSpan(expr.Span(), nameSpan)}, Object: expr, Name: name}
			}

		case lexer.TokenLBracket:
			if err := p.advance(); err != nil {
				return nil, err
			}
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			end := p.cur.Span
			if p.cur.Type != lexer.TokenRBracket {
				return nil, p.errf(p.cur.Span, "expected ']'")
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			expr = &Index{base: base{mergeSpan(expr.Span(), end)}, Object: expr, Key: idx}

		case lexer.TokenLParen:
			args, named, _, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			expr = &CallExpr{base: base{expr.Span()}, Callee: expr, Args: args, NamedArgs: named}

		case lexer.TokenQuestion:
			end := p.cur.Span
			if err := p.advance(); err != nil {
				return nil, err
			}
			expr = &Try{base: base{mergeSpan(expr.Span(), end)}, Inner: expr}

		case lexer.TokenPipe:
			if p.peek.Type != lexer.TokenIdentifier {
				return expr, nil
			}
			if err := p.advance(); err != nil { // '|'
				return nil, err
			}
			name := p.cur.Value
			nameSpan := p.cur.Span
			if err := p.advance(); err != nil {
				return nil, err
			}
			var args []Expr
			if p.cur.Type == lexer.TokenLParen {
				positional, named, _, err := p.parseArgList()
				if err != nil {
					return nil, err
				}
				if len(named) > 0 {
					return nil, p.errf(nameSpan, "filters do not accept named arguments")
				}
				args = positional
			}
			expr = &FilterExpr{base: base{mergeSpan(expr.Span(), nameSpan)}, Value: expr, Name: name, Args: args}

		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.cur
	switch tok.Type {
	case lexer.TokenTrue:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &LitBool{base: base{tok.Span}, Value: true}, nil
	case lexer.TokenFalse:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &LitBool{base: base{tok.Span}, Value: false}, nil
	case lexer.TokenInteger:
		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, p.errf(tok.Span, "invalid integer literal %q: %v", tok.Value, err)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &LitInt{base: base{tok.Span}, Value: v, Raw: tok.Value}, nil
	case lexer.TokenFloat:
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.errf(tok.Span, "invalid float literal %q: %v", tok.Value, err)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &LitFloat{base: base{tok.Span}, Value: v, Raw: tok.Value}, nil
	case lexer.TokenString:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &LitString{base: base{tok.Span}, Value: tok.Value}, nil
	case lexer.TokenChar:
		if err := p.advance(); err != nil {
			return nil, err
		}
		r := rune(0)
		for _, c := range tok.Value {
			r = c
			break
		}
		return &LitChar{base: base{tok.Span}, Value: r}, nil
	case lexer.TokenSelf:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Var{base: base{tok.Span}, Name: "self"}, nil
	case lexer.TokenLoop:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Var{base: base{tok.Span}, Name: "loop"}, nil
	case lexer.TokenSuper:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectKeyword(lexer.TokenLParen); err != nil {
			return nil, err
		}
		if err := p.expectKeyword(lexer.TokenRParen); err != nil {
			return nil, err
		}
		return &CallExpr{base: base{tok.Span}, Callee: &Var{base: base{tok.Span}, Name: "super"}}, nil
	case lexer.TokenHost:
		return p.parseHostExpr(tok)
	case lexer.TokenIdentifier:
		return p.parseIdentOrPath(tok)
	case lexer.TokenLParen:
		return p.parseParenOrTuple(tok)
	case lexer.TokenLBracket:
		return p.parseArrayLit(tok)
	default:
		return nil, p.errf(tok.Span, "unexpected token %s in expression", tok.Type)
	}
}

func (p *Parser) parseHostExpr(tok *lexer.Token) (Expr, error) {
	if err := p.advance(); err != nil { // 'host'
		return nil, err
	}
	if err := p.expectKeyword(lexer.TokenBang); err != nil {
		return nil, err
	}
	if err := p.expectKeyword(lexer.TokenLParen); err != nil {
		return nil, err
	}
	depth := 1
	start := p.cur.Span.Start
	var end int
	for depth > 0 {
		if p.cur.Type == lexer.TokenEOF {
			return nil, p.errf(p.cur.Span, "unterminated host!(...) block")
		}
		if p.cur.Type == lexer.TokenLParen {
			depth++
		}
		if p.cur.Type == lexer.TokenRParen {
			depth--
			if depth == 0 {
				end = p.cur.Span.Start
				break
			}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	tokens := ""
	if end > start {
		tokens = p.lex.SourceSlice(start, end)
	}
	if err := p.advance(); err != nil { // ')'
		return nil, err
	}
	return &HostExpr{base: base{mergeSpan(tok.Span, Span{End: end})}, Tokens: tokens}, nil
}

func (p *Parser) parseIdentOrPath(tok *lexer.Token) (Expr, error) {
	first := tok.Value
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Type != lexer.TokenColonColon {
		return &Var{base: base{tok.Span}, Name: first}, nil
	}
	segs := []string{first}
	for p.cur.Type == lexer.TokenColonColon {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Type != lexer.TokenIdentifier {
			return nil, p.errf(p.cur.Span, "expected identifier after '::'")
		}
		segs = append(segs, p.cur.Value)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return &Path{base: base{tok.Span}, Segments: segs}, nil
}

func (p *Parser) parseParenOrTuple(tok *lexer.Token) (Expr, error) {
	if err := p.advance(); err != nil { // '('
		return nil, err
	}
	if p.cur.Type == lexer.TokenRParen {
		end := p.cur.Span
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Tuple{base: base{mergeSpan(tok.Span, end)}}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Type == lexer.TokenComma {
		elems := []Expr{first}
		for p.cur.Type == lexer.TokenComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.Type == lexer.TokenRParen {
				break
			}
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		end := p.cur.Span
		if p.cur.Type != lexer.TokenRParen {
			return nil, p.errf(p.cur.Span, "expected ')'")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Tuple{base: base{mergeSpan(tok.Span, end)}, Elems: elems}, nil
	}
	end := p.cur.Span
	if p.cur.Type != lexer.TokenRParen {
		return nil, p.errf(p.cur.Span, "expected ')'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &Group{base: base{mergeSpan(tok.Span, end)}, Inner: first}, nil
}

func (p *Parser) parseArrayLit(tok *lexer.Token) (Expr, error) {
	if err := p.advance(); err != nil { // '['
		return nil, err
	}
	var elems []Expr
	for p.cur.Type != lexer.TokenRBracket {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.cur.Type == lexer.TokenComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	end := p.cur.Span
	if err := p.advance(); err != nil { // ']'
		return nil, err
	}
	return &Array{base: base{mergeSpan(tok.Span, end)}, Elems: elems}, nil
}
