// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

/*
Package zpl provides a parser and canonical renderer for ZPL, an
indentation-structured configuration format.

This package does not preserve comments or layout: parsing a file and
rendering it again always produces the canonical form.

Syntax

A ZPL file is text made up of lines. Lines may be terminated by CR LF, CR or
LF. Each line is either a section header or a property. A property is a key
and value separated by the first equals sign ('='):

	key=value

Anything after the first equals sign belongs to the value, including further
equals signs and surrounding whitespace. The key is trimmed. Any other line is
a section header, and its trimmed content is the section name:

	server
	    host=example.com
	    tls
	        cert=/etc/server.pem
	client
	    timeout=30

Nesting is expressed only through indentation: each level is four spaces. The
children of a section are the lines that follow it indented one level deeper.
A dedent may close several sections at once. Every property must belong to a
section, so a property at the outermost level is a syntax error. Multiple
sections may have the same name; they are kept as distinct siblings in
source order.

Blank lines and lines consisting only of whitespace are ignored. If the first
non-whitespace character of a line is a hash ('#'), the line is a comment.
Parsing in relaxed mode additionally recognizes line comments starting with
"//" and C-style block comments. A block comment starts at a line beginning
with a slash and an asterisk and runs through the first line that ends with
an asterisk and a slash. Inline comments are not supported.

Canonical form

Render emits each section header and property on its own line, indented by
four spaces per level and terminated by CR LF. Comments and blank lines are
not emitted.
*/
package zpl
