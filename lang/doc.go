// Package lang implements a small expression-oriented scripting language:
// a lexer, a recursive-descent parser producing an AST, a lexically scoped
// environment with closures, and a tree-walking evaluator.
//
// # Values
//
// The language is dynamically and strictly typed. There is no implicit
// coercion between the six value types:
//
//   - int: signed 64-bit integer
//   - bool: true or false
//   - string: byte string literal in double quotes, without escapes
//   - array: ordered sequence of values, written [a, b, c]
//   - function: user-defined function with its defining scope
//   - builtin: native function (print, len, read_file, write_file)
//
// Values are copied on store and on retrieval, so no two bindings ever share
// an array.
//
// # Grammar
//
// Newlines terminate statements. Informal EBNF:
//
//	Program   → Stmt* EOF
//	Stmt      → Ident '=' Expr
//	          | 'if' Expr NL Stmt* ('else' NL Stmt*)? 'end'
//	          | 'do' Expr NL Stmt* 'end'
//	          | 'do' NL Stmt* 'until' Expr
//	          | 'fn' Ident '(' Params? ')' NL Stmt* 'end'
//	          | 'return' Expr
//	          | Expr
//	Expr      → Or
//	Or        → And ('or' And)*
//	And       → Equality ('and' Equality)*
//	Equality  → Compare (('==' | '!=') Compare)*
//	Compare   → Term (('<' | '<=' | '>' | '>=') Term)*
//	Term      → Factor (('+' | '-') Factor)*
//	Factor    → Unary (('*' | '/') Unary)*
//	Unary     → ('-' | 'not') Unary | Postfix
//	Postfix   → Primary ('[' Expr ']')*
//	Primary   → Int | String | 'true' | 'false' | Ident | Ident '(' Args? ')'
//	          | '(' Expr ')' | '[' Args? ']'
//
// # Example
//
//	# closures capture their defining scope
//	fn counter(start)
//	  fn next(step)
//	    return start + step
//	  end
//	  return next
//	end
//
//	add = counter(10)
//	add(5)            # prints "=> 15"
//
//	i = 0
//	do i < 3
//	  print(i)
//	  i = i + 1
//	end
//
// # Scoping
//
// Only function calls create scopes. A call runs in a new scope whose parent
// is the scope the function was defined in, not the caller's. The bodies of
// if and do share the scope of the enclosing function (or the global scope),
// so a name first assigned inside a branch remains visible after it.
//
// # Errors
//
// Every failure is an [*Error] of class lexical, syntax or runtime, carrying
// the source position of the offending token. Evaluation stops at the first
// error. Top-level expression statements print their value prefixed by
// "=> ", except for direct calls to print.
package lang
