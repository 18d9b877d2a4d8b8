// Package lang runs tinyscript programs.
//
// A program is parsed into a [Script] with [ParseString], [ParseReader] or
// [ParseFile] and executed with [Script.Run]. [RunString] does both.
//
// # Language
//
// Statements end at a newline and blocks are delimited by indentation:
//
//	# line comment
//	global total          # names assigned anywhere become globals
//	total = 0
//
//	function add(list)    # named functions are always global
//	  iterate x in list
//	    if x == 0
//	      break
//	    total = total + x
//	  return total
//
//	point = {
//	  x: 1,
//	  y: 2,
//	  norm: function()
//	    return me.x * me.x + me.y * me.y
//	}
//
//	say(add([1, 2, 3]), point.norm(), 'a' .. 'b')
//
// Values are null, booleans, 64-bit integers, floats, strings, lists,
// objects, native handles and native functions. Operators on mismatched
// kinds evaluate to null. The builtins say, open_file, create_file,
// _strdrop, _strexpand and load_module are always available, along with
// the args list.
package lang
