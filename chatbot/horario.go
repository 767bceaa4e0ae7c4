package chatbot

import (
	"time"

	"entregabot/models"
)

// Avisos enviados fora do horário de atendimento. O texto muda conforme o
// fluxo que teria sido chamado e o lado da janela (antes de abrir / depois de
// fechar).
const avisoAntesAbertura = `Olá! 😃
Gostaríamos de informar que nosso horário de *atendimento* inicia às 🕥 *9h30* até às 23h00 🕙 e as *atividades* iniciam às 🕙 *10h00*.

Se você tiver alguma dúvida ou precisar de assistência, recomendamos que entre em contato novamente a partir das 🕥 9h30. 🏍️

Obrigado pela compreensão!`

const avisoAposFechamentoEmpresa = `Pedimos desculpas pelo inconveniente, pois nosso horário de *atendimento* é das 🕥 *9h30* até às 23h00 🕙 e as *atividades* são das 🕙 *10h00* até às 23h00.

Se você tiver alguma dúvida ou precisar de assistência, recomendamos que entre em contato novamente amanhã a partir das 🕥 9h30. 🏍️

Agradecemos pela compreensão.`

const avisoAposFechamentoFisica = `Olá! 😃
Pedimos desculpas pelo inconveniente, pois nosso horário de *atendimento* é das 🕥 *9h30* até às 23h00 🕙 e as *atividades* são das 🕙 *10h00* até às 23h00.

Se você tiver alguma dúvida ou precisar de assistência, recomendamos que entre em contato conosco novamente amanhã a partir das 🕥 9h30, quando retomaremos nosso atendimento, e as atividades iniciam às 🕙 10h00. 🏍️

Agradecemos pela compreensão.`

// HorarioComercial avalia a janela de atendimento no fuso civil da operação.
// Aberto de abertura (inclusive) até fechamento (exclusive).
type HorarioComercial struct {
	AberturaHora   int
	AberturaMinuto int
	FechamentoHora int

	loc *time.Location
	now func() time.Time
}

func NewHorarioComercial(aberturaHora, aberturaMinuto, fechamentoHora int, loc *time.Location) *HorarioComercial {
	if loc == nil {
		loc = time.Local
	}
	return &HorarioComercial{
		AberturaHora:   aberturaHora,
		AberturaMinuto: aberturaMinuto,
		FechamentoHora: fechamentoHora,
		loc:            loc,
		now:            time.Now,
	}
}

// Agora devolve hora e minuto correntes no fuso da operação.
func (h *HorarioComercial) Agora() (int, int) {
	t := h.now().In(h.loc)
	return t.Hour(), t.Minute()
}

// IsOpen diz se o instante (hora, minuto) cai dentro da janela de atendimento.
func (h *HorarioComercial) IsOpen(hora, minuto int) bool {
	depoisDaAbertura := hora > h.AberturaHora || (hora == h.AberturaHora && minuto >= h.AberturaMinuto)
	return depoisDaAbertura && hora < h.FechamentoHora
}

// Aviso escolhe a mensagem de fora de horário para o instante e o fluxo.
func (h *HorarioComercial) Aviso(hora, minuto int, fluxo string) string {
	antes := hora < h.AberturaHora || (hora == h.AberturaHora && minuto < h.AberturaMinuto)
	if antes {
		return avisoAntesAbertura
	}
	if fluxo == models.FLUXO_FISICA {
		return avisoAposFechamentoFisica
	}
	return avisoAposFechamentoEmpresa
}
