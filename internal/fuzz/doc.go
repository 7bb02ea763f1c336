// Package fuzztests houses Go fuzz harnesses for the parts of the engine that
// read untrusted text: the generated-code lexer and anchor collector, the
// dialect literal scanner, the host block scanner, the mappings decoder and
// the dense builder itself. They guard against panics, hangs and maps that
// break the column and bounds invariants.
//
// Назначение: прогонять произвольные байты через сканеры и построитель карт.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
